package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/playmatatu/ballpit/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	idleExpireKey       = "idle_expire"
	lastActivePrefix    = "last_active:"
	SessionEventChannel = "session_events"
)

// idleMember is the sorted-set member for a session: s:<sessionID>
func idleMember(sessionID string) string {
	return "s:" + sessionID
}

// parseMember expects member format s:<sessionID>
func parseMember(m string) string {
	if id, ok := strings.CutPrefix(m, "s:"); ok {
		return id
	}
	return ""
}

// MarkActive records activity for a session and pushes back its expiry.
func MarkActive(ctx context.Context, rdb *redis.Client, cfg *config.Config, sessionID string) {
	if rdb == nil || cfg == nil {
		return
	}
	now := time.Now().Unix()
	m := idleMember(sessionID)
	pipe := rdb.Pipeline()
	pipe.Set(ctx, lastActivePrefix+m, strconv.FormatInt(now, 10), time.Duration(cfg.IdleTimeoutSeconds*2)*time.Second)
	pipe.ZAdd(ctx, idleExpireKey, redis.Z{Score: float64(now + int64(cfg.IdleTimeoutSeconds)), Member: m})
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[IDLE] Failed to mark session %s active: %v", sessionID, err)
	}
}

// ForgetSession clears idle tracking for a removed session.
func ForgetSession(ctx context.Context, rdb *redis.Client, sessionID string) {
	if rdb == nil {
		return
	}
	m := idleMember(sessionID)
	rdb.ZRem(ctx, idleExpireKey, m)
	rdb.Del(ctx, lastActivePrefix+m)
}

// SessionEvent is published on SessionEventChannel.
type SessionEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// StartIdleWorker starts a background worker that removes sessions nobody has
// touched for IdleTimeoutSeconds, using a Redis sorted set scored by expiry time.
func StartIdleWorker(ctx context.Context, rdb *redis.Client, cfg *config.Config, sm *SessionManager) {
	if rdb == nil || cfg == nil || sm == nil {
		log.Println("[IDLE] Redis, config or manager missing; idle worker not started")
		return
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.IdleWorkerPollInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				reapIdleSessions(ctx, rdb, cfg, sm)
			}
		}
	}()
}

func reapIdleSessions(ctx context.Context, rdb *redis.Client, cfg *config.Config, sm *SessionManager) {
	now := time.Now().Unix()
	members, err := rdb.ZRangeByScore(ctx, idleExpireKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle sessions: %v", err)
		return
	}

	for _, m := range members {
		// Attempt to remove (race-safe)
		removed, _ := rdb.ZRem(ctx, idleExpireKey, m).Result()
		if removed == 0 {
			continue
		}
		sessionID := parseMember(m)
		if sessionID == "" {
			continue
		}

		last, _ := rdb.Get(ctx, lastActivePrefix+m).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if time.Now().Unix()-lastTs < int64(cfg.IdleTimeoutSeconds) {
			// touched since scheduling; put it back
			rdb.ZAdd(ctx, idleExpireKey, redis.Z{Score: float64(lastTs + int64(cfg.IdleTimeoutSeconds)), Member: m})
			continue
		}

		if err := sm.RemoveSession(sessionID); err != nil {
			log.Printf("[IDLE] skipping %s: %v", sessionID, err)
			rdb.Del(ctx, lastActivePrefix+m)
			continue
		}
		ForgetSession(ctx, rdb, sessionID)

		payload, _ := json.Marshal(SessionEvent{Type: "session_expired", SessionID: sessionID, Message: "Session closed after inactivity"})
		if n, err := rdb.Publish(ctx, SessionEventChannel, payload).Result(); err != nil {
			log.Printf("[IDLE] publish expiry failed: session=%s err=%v", sessionID, err)
		} else {
			log.Printf("[IDLE] expired session=%s subscribers=%d", sessionID, n)
		}
	}
}
