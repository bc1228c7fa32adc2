package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/ballpit/internal/api"
	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
	"github.com/playmatatu/ballpit/internal/redis"
	"github.com/playmatatu/ballpit/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis (optional: idle sessions are only reaped with Redis)
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Println("[IDLE] REDIS_URL not set; idle sessions will not be reaped")
	}

	// Initialize session manager
	sm := game.InitializeManager(ctx, cfg)
	defer sm.Shutdown()

	// Wire the WS layer
	ws.SetSessionManager(sm)
	ws.SetRedisClient(rdb, cfg)
	ws.StartSessionEventSubscriber(ctx)

	// Start idle worker
	game.StartIdleWorker(ctx, rdb, cfg, sm)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, sm, rdb, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting ballpit server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
