package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/ballpit/internal/config"
	"github.com/playmatatu/ballpit/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// CloseSession disconnects the viewer of a removed session.
func CloseSession(sessionID, message string) {
	SessionHub.closeSession(sessionID, map[string]interface{}{
		"type":       "session_closed",
		"session_id": sessionID,
		"message":    message,
	})
}

// StartSessionEventSubscriber subscribes to session_events and disconnects viewers of
// expired sessions.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.SessionEventChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.SessionEventChannel)
		for msg := range ch {
			var event game.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			switch event.Type {
			case "session_expired":
				log.Printf("[WS] session %s expired; closing viewer", event.SessionID)
				SessionHub.closeSession(event.SessionID, map[string]interface{}{
					"type":       "session_expired",
					"session_id": event.SessionID,
					"message":    event.Message,
				})
			default:
				log.Printf("[WS] ignoring event type=%s session=%s", event.Type, event.SessionID)
			}
		}
	}()
}
