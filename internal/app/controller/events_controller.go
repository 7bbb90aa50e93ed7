package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/yoonsu/baedalgo-backend/internal/errors"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
	ws "github.com/yoonsu/baedalgo-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://admin.baedalgo.com": true,
			"http://localhost:5173":      true, // local dashboard
			"http://localhost:3000":      true,
		}
		return allowedOrigins[origin]
	},
}

// EventsController streams verification events to the admin dashboard
type EventsController struct {
	hub *ws.Hub
}

func NewEventsController(hub *ws.Hub) *EventsController {
	return &EventsController{
		hub: hub,
	}
}

// Subscribe upgrades the connection and attaches it to the event feed
// GET /api/v1/admin/verifications/events
func (ctrl *EventsController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Verification feed connection established", map[string]interface{}{
		"user_id": userID,
	})
}
