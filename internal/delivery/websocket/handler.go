package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	upgrader *websocket.Upgrader
	hub      *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub: hub,
	}
}

// ServeWS upgrades the connection and hands it to the hub. The connection
// starts unidentified; the client announces its user id with an addUser
// event.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		log.Printf("upgrade: %v", err)
		return
	}

	client := &Client{
		ConnID: uuid.NewString(),
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    h.hub,
	}
	h.hub.Registered <- client

	go client.WritePump()
	go client.ReadPump()
}
