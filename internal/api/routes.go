package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/ballpit/internal/api/handlers"
	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
	"github.com/playmatatu/ballpit/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, sm *game.SessionManager, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(sm))
		v1.GET("/config", handlers.GetConfig(cfg))

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(sm, rdb, cfg))
			sessions.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleSessionWebSocket())

			authed := sessions.Group("/:id", handlers.AuthMiddleware(cfg))
			{
				authed.GET("", handlers.GetSession(sm))
				authed.POST("/restart", handlers.RestartSession(sm, rdb, cfg))
				authed.DELETE("", handlers.DeleteSession(sm, rdb))
			}
		}
	}
}
