package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/infrastructure/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsHandler struct {
	hub *events.WSHub
}

func NewEventsHandler(hub *events.WSHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /events
// @Summary Subscribe to session events over WebSocket
// @Tags events
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	// Clients only listen; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
