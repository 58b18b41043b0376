package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/xcelrent/xcelrent-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers the client with the
// hub. Auth middleware runs first; the token may arrive as a query param
// because browser WebSocket clients cannot set headers.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, userType)
	}
}
