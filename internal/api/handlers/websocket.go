package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/ballpit/internal/ws"
)

// HandleSessionWebSocket streams frames to a viewer and accepts pointer input
func HandleSessionWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
