package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chat-service/internal/domain"
	"chat-service/internal/metrics"
	"chat-service/internal/presence"

	"github.com/gorilla/websocket"
)

var (
	writeWait      = 10 * time.Second
	maxMessageSize = 1024
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// MessageStore persists a message before delivery when the hub is configured
// to fold storage into the realtime path. The chat usecase satisfies it.
type MessageStore interface {
	AddMessage(ctx context.Context, chatRoomID, senderID, receiverID, body string) (*domain.Message, error)
}

// Hub runs the connection event loop: it bridges connection lifecycle events
// to the presence registry and routes direct messages to the receiver's live
// connection. Delivery is at-most-once and best effort; an offline receiver
// is an expected branch, not an error.
type Hub struct {
	Registered   chan *Client
	Unregistered chan *Client
	Identified   chan *IdentifyRequest
	Direct       chan *DirectMessage
	Shutdown     chan struct{}

	clients  map[*Client]bool
	registry *presence.Registry
	store    MessageStore // nil unless persist-on-send is enabled
}

// IdentifyRequest binds a connection to the user identity it announced.
type IdentifyRequest struct {
	Client *Client
	UserID string
}

// DirectMessage is a routed point-to-point message. Sender identity is taken
// from the payload, not from the connection.
type DirectMessage struct {
	From    *Client
	Payload *SendMessagePayload
}

// Client is one live connection handle. UserID stays empty until the
// connection identifies; an unidentified connection stays open but cannot be
// routed to by user id.
type Client struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

func (c *Client) ID() string { return c.ConnID }

func NewHub(registry *presence.Registry, store MessageStore) *Hub {
	return &Hub{
		Registered:   make(chan *Client),
		Unregistered: make(chan *Client),
		Identified:   make(chan *IdentifyRequest),
		Direct:       make(chan *DirectMessage),
		Shutdown:     make(chan struct{}),
		clients:      make(map[*Client]bool),
		registry:     registry,
		store:        store,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Registered:
			h.clients[client] = true
			metrics.ConnectedClients.Inc()
			log.Printf("connection %s opened, total connections: %d", client.ConnID, len(h.clients))

		case client := <-h.Unregistered:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			delete(h.clients, client)
			close(client.Send)
			metrics.ConnectedClients.Dec()
			if userID, ok := h.registry.Unregister(client); ok {
				metrics.IdentifiedUsers.Dec()
				log.Printf("%s is disconnected", userID)
				h.broadcastPresence()
			}

		case req := <-h.Identified:
			req.Client.UserID = req.UserID
			if h.registry.Register(req.UserID, req.Client) {
				metrics.IdentifiedUsers.Inc()
				log.Printf("%s is connected on %s", req.UserID, req.Client.ConnID)
			}
			h.broadcastPresence()

		case msg := <-h.Direct:
			h.deliver(msg)

		case <-h.Shutdown:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *Hub) deliver(msg *DirectMessage) {
	p := msg.Payload
	createdAt := time.Now().UTC()

	if h.store != nil && p.RoomID != "" && p.Sender != "" {
		stored, err := h.store.AddMessage(context.Background(), p.RoomID, p.Sender, p.Receiver, p.Message)
		if err != nil {
			log.Printf("persist message for room %s: %v", p.RoomID, err)
		} else {
			createdAt = stored.CreatedAt
		}
	}

	conn, ok := h.registry.Lookup(p.Receiver)
	if !ok {
		// Receiver offline: drop without signalling the sender.
		metrics.MessagesDropped.Inc()
		return
	}
	receiver, ok := conn.(*Client)
	if !ok {
		return
	}

	out, err := EncodeEvent(EventGetMessage, GetMessagePayload{
		Sender:    p.Sender,
		Message:   p.Message,
		Receiver:  p.Receiver,
		ChatRoom:  p.RoomID,
		CreatedAt: createdAt,
	})
	if err != nil {
		log.Printf("encode getMessage: %v", err)
		return
	}

	select {
	case receiver.Send <- out:
		metrics.MessagesDelivered.Inc()
	default:
		h.drop(receiver)
	}
}

// drop cuts a slow consumer loose: its send buffer is full, so the
// connection is treated as dead.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	metrics.ConnectedClients.Dec()
	if _, ok := h.registry.Unregister(client); ok {
		metrics.IdentifiedUsers.Dec()
	}
}

func (h *Hub) broadcastPresence() {
	snapshot := h.registry.Snapshot()
	entries := make([]PresenceEntry, 0, len(snapshot))
	for _, e := range snapshot {
		entries = append(entries, PresenceEntry{UserID: e.UserID, ConnID: e.ConnID})
	}

	out, err := EncodeEvent(EventGetUsers, entries)
	if err != nil {
		log.Printf("encode getUsers: %v", err)
		return
	}

	metrics.PresenceBroadcasts.Inc()
	for client := range h.clients {
		select {
		case client.Send <- out:
		default:
			h.drop(client)
		}
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregistered <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(int64(maxMessageSize))
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("read on %s: %v", c.ConnID, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("malformed frame on %s: %v", c.ConnID, err)
			continue
		}

		switch env.Event {
		case EventAddUser:
			p, err := DecodeAddUser(env.Data)
			if err != nil {
				log.Printf("rejected %s on %s: %v", env.Event, c.ConnID, err)
				continue
			}
			c.Hub.Identified <- &IdentifyRequest{Client: c, UserID: p.UserID}

		case EventSendMessage:
			p, err := DecodeSendMessage(env.Data)
			if err != nil {
				log.Printf("rejected %s on %s: %v", env.Event, c.ConnID, err)
				continue
			}
			c.Hub.Direct <- &DirectMessage{From: c, Payload: p}

		default:
			log.Printf("rejected unknown event %q on %s", env.Event, c.ConnID)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			writer, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				log.Printf("Error getting writer: %v", err)
				return
			}

			if _, err := writer.Write(msg); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

			n := len(c.Send)
			for i := 0; i < n; i++ {
				if _, err := writer.Write(<-c.Send); err != nil {
					log.Printf("Error writing message: %v", err)
					return
				}
			}
			if err := writer.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Error writing ping message: %v", err)
				return
			}
		}
	}
}
