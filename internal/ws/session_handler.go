package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/ballpit/internal/auth"
	"github.com/playmatatu/ballpit/internal/game"
)

// Inbound message data types
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SetColorData struct {
	BodyID game.BodyID `json:"body_id"`
	Color  string      `json:"color"`
}

const commandTimeout = 2 * time.Second

// SessionHub is the single hub for all sessions.
var SessionHub *Hub

var sessions *game.SessionManager

func init() {
	SessionHub = NewHub()
	go runSessionHub(SessionHub)
}

// SetSessionManager wires the manager used to resolve sessions.
func SetSessionManager(sm *game.SessionManager) {
	sessions = sm
}

// HandleWebSocket upgrades a viewer connection for the session in the path.
func HandleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	token := c.Query("token")

	if sessionID == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id and token required"})
		return
	}
	if sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
		return
	}

	granted, err := auth.ParseSessionToken(sessions.GetConfig().JWTSecret, token)
	if err != nil || granted != sessionID {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid session token"})
		return
	}

	s, err := sessions.GetSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:      conn,
		sessionID: sessionID,
		session:   s,
		send:      make(chan []byte, 32),
	}
	client.sink = newFrameSink(client)

	SessionHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runSessionHub registers and unregisters viewers.
func runSessionHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if oldClient, exists := h.clients[client.sessionID]; exists {
				log.Printf("[WS] Session %s reconnecting - closing old connection", client.sessionID)
				if err := oldClient.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("Error writing close control to old client %s: %v", oldClient.sessionID, err)
				}
				oldClient.session.CancelPointer()
				oldClient.session.Detach(oldClient.sink)
				oldClient.closeSend()
			}
			h.clients[client.sessionID] = client
			h.mu.Unlock()

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			if err := client.session.Attach(ctx, client.sink); err != nil {
				log.Printf("[WS] Attach failed for session %s: %v", client.sessionID, err)
			}
			cancel()

			log.Printf("[WS] Viewer connected to session %s", client.sessionID)
			client.sendJSON(map[string]interface{}{
				"type":       "session_ready",
				"session_id": client.sessionID,
				"surface":    client.session.Surface(),
				"palette":    game.Palette,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			current := false
			if cur, ok := h.clients[client.sessionID]; ok && cur == client {
				delete(h.clients, client.sessionID)
				current = true
				log.Printf("[WS] Viewer disconnected from session %s", client.sessionID)
			}
			h.mu.Unlock()
			// A replaced viewer must not drop its successor's gesture.
			if current {
				client.session.CancelPointer()
			}
			client.session.Detach(client.sink)
			client.closeSend()
		}
	}
}

// closeSession drops the viewer of a session that no longer exists.
func (h *Hub) closeSession(sessionID string, reason map[string]interface{}) {
	h.mu.Lock()
	client, ok := h.clients[sessionID]
	if ok {
		delete(h.clients, sessionID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	if reason != nil {
		client.sendJSON(reason)
	}
	client.closeSend()
}

// readPump reads viewer input.
func (c *Client) readPump() {
	defer func() {
		SessionHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for session %s: %v", c.sessionID, err)
			}
			break
		}

		c.markActive()

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// markActive refreshes idle tracking at most once per second.
func (c *Client) markActive() {
	if rdbClient == nil || time.Since(c.lastMarked) < time.Second {
		return
	}
	c.lastMarked = time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	game.MarkActive(ctx, rdbClient, wsConfig, c.sessionID)
}

// handleMessage processes incoming viewer messages.
func (c *Client) handleMessage(msg WSMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch msg.Type {
	case "pointer_down", "pointer_move", "pointer_up", "pointer_leave":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		c.handlePointer(ctx, msg.Type, data)

	case "set_color":
		var data SetColorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid color data")
			return
		}
		c.handleSetColor(ctx, data)

	case "get_state":
		f, err := c.session.Snapshot(ctx)
		if err != nil {
			c.sendError("Session unavailable")
			return
		}
		data, err := encodeFrame(f)
		if err != nil {
			return
		}
		c.trySend(data)

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) handlePointer(ctx context.Context, kind string, data PointerData) {
	var (
		click game.Click
		ok    bool
		err   error
	)
	switch kind {
	case "pointer_down":
		err = c.session.PointerDown(ctx, data.X, data.Y)
	case "pointer_move":
		err = c.session.PointerMove(ctx, data.X, data.Y)
	case "pointer_up":
		click, ok, err = c.session.PointerUp(ctx, data.X, data.Y)
	case "pointer_leave":
		click, ok, err = c.session.PointerLeave(ctx, data.X, data.Y)
	}
	if err != nil {
		c.sendError("Session unavailable")
		return
	}
	if !ok {
		return
	}

	selected, err := c.session.BodyColor(ctx, click.BodyID)
	if err != nil {
		return
	}
	c.sendJSON(map[string]interface{}{
		"type":     "context_menu",
		"body_id":  click.BodyID,
		"x":        click.X,
		"y":        click.Y,
		"selected": selected,
		"palette":  game.Palette,
	})
}

func (c *Client) handleSetColor(ctx context.Context, data SetColorData) {
	err := c.session.SetColor(ctx, data.BodyID, data.Color)
	switch {
	case errors.Is(err, game.ErrInvalidColor):
		c.sendError("Invalid color")
		return
	case errors.Is(err, game.ErrUnknownBody):
		c.sendError("Unknown body")
		return
	case err != nil:
		c.sendError("Session unavailable")
		return
	}

	color, _ := c.session.BodyColor(ctx, data.BodyID)
	c.sendJSON(map[string]interface{}{
		"type":    "color_set",
		"body_id": data.BodyID,
		"color":   color,
	})
}
