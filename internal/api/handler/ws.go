package handler

import (
	"net/http"
	"strings"

	"resolve/backend/internal/feed"
	"resolve/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket
// Browsers cannot set headers on WebSocket requests, so the token is also
// accepted as a "token" query parameter.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	claims, err := h.parseToken(tokenString)
	if err != nil || claims.Purpose != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &feed.WebSocketClient{
		Hub:    h.Hub,
		UserID: claims.UserID,
		Role:   claims.Role,
		Conn:   conn,
		Send:   make(chan models.Notification, 256),
	}

	// Реєстрація клієнта в Hub; Run запускає read/write pumps
	h.Hub.RegisterCh <- client
	client.Run()
}
