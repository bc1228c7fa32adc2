package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
)

// GetConfig returns the values a viewer needs before opening a session
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	phys := game.PhysicsFromConfig(cfg)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"surface":            game.Surface{Width: cfg.SurfaceWidth, Height: cfg.SurfaceHeight},
			"frame_rate":         cfg.FrameRate,
			"click_threshold_ms": cfg.ClickThresholdMs,
			"palette":            game.Palette,
			"physics":            phys,
		})
	}
}
