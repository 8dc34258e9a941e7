package ws

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/soundfloor/crowdmix/backend/internal/hub"
)

// Handler upgrades HTTP requests into hub clients.
type Handler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(h *hub.Hub) *Handler {
	return &Handler{
		hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(h.hub, conn)
	client.Start()
	log.Printf("[ws] connection established conn=%s", client.ID())
}
