package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/ballpit/internal/auth"
	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
	"github.com/playmatatu/ballpit/internal/ws"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 2 * time.Second

// CreateSession starts a new simulation and returns a token for it
func CreateSession(sm *game.SessionManager, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		s, err := sm.CreateSession(ctx)
		if errors.Is(err, game.ErrTooManySessions) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many sessions"})
			return
		}
		if err != nil {
			log.Printf("[SESSION] create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
			return
		}

		token, exp, err := auth.IssueSessionToken(cfg.JWTSecret, s.ID, time.Duration(cfg.SessionTokenTTLMinutes)*time.Minute)
		if err != nil {
			log.Printf("[SESSION] %v", err)
			sm.RemoveSession(s.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		game.MarkActive(ctx, rdb, cfg, s.ID)

		c.Header("X-Session-ID", s.ID)
		c.JSON(http.StatusCreated, gin.H{
			"session_id": s.ID,
			"token":      token,
			"expires_at": exp.UTC().Format(time.RFC3339),
			"surface":    s.Surface(),
			"palette":    game.Palette,
			"ws_path":    "/api/v1/sessions/" + s.ID + "/ws",
		})
	}
}

// GetSession returns the current frame and counters of a session
func GetSession(sm *game.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sm.GetSession(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		frame, err := s.Snapshot(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session unavailable"})
			return
		}
		state, _ := s.State(ctx)

		c.JSON(http.StatusOK, gin.H{
			"session_id": s.ID,
			"state":      state.String(),
			"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
			"stats":      s.Stats(),
			"frame":      frame,
		})
	}
}

// RestartSession repopulates a session with a fresh layout
func RestartSession(sm *game.SessionManager, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sm.GetSession(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := s.Restart(ctx); err != nil {
			log.Printf("[SESSION] restart %s failed: %v", s.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not restart session"})
			return
		}
		game.MarkActive(ctx, rdb, cfg, s.ID)

		c.JSON(http.StatusOK, gin.H{"session_id": s.ID, "restarted": true, "stats": s.Stats()})
	}
}

// DeleteSession stops a session and disconnects its viewer
func DeleteSession(sm *game.SessionManager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := sm.RemoveSession(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		game.ForgetSession(c.Request.Context(), rdb, id)
		ws.CloseSession(id, "Session closed")

		c.JSON(http.StatusOK, gin.H{"session_id": id, "deleted": true})
	}
}
