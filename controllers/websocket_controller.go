package controllers

import (
	"fmt"
	"net/http"

	"GuardianMobile/services"
	"GuardianMobile/websocket"

	"github.com/gin-gonic/gin"
)

var WebSocketHub *websocket.Hub

func SetWebSocketHub(hub *websocket.Hub) {
	WebSocketHub = hub
	go WebSocketHub.Run()
}

// ServeWs открывает опекуну поток изменений состояний его устройств
func ServeWs(c *gin.Context) {
	guardianUID, exists := c.Get("firebase_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userType, exists := c.Get("user_type")
	if !exists || userType.(string) != services.UserTypeGuardian {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden: guardians only"})
		return
	}

	fmt.Printf("WebSocket connection: guardian %s connecting to state stream\n", guardianUID.(string))

	websocket.ServeWs(WebSocketHub, c.Writer, c.Request, guardianUID.(string))
}
