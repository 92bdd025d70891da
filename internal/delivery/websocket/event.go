package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire event names, matching the protocol the web client already speaks.
const (
	EventAddUser     = "addUser"
	EventGetUsers    = "getUsers"
	EventSendMessage = "sendMessage"
	EventGetMessage  = "getMessage"
)

// Envelope frames every event on the wire: a name tag plus that event's fixed
// payload shape. Unknown names and malformed payloads are rejected up front
// instead of being carried around as loose maps.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type AddUserPayload struct {
	UserID string `json:"userId"`
}

type SendMessagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
	RoomID   string `json:"roomId"`
}

type GetMessagePayload struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Receiver  string    `json:"receiver"`
	ChatRoom  string    `json:"chatRoom"`
	CreatedAt time.Time `json:"createdAt"`
}

// PresenceEntry is one element of the getUsers broadcast.
type PresenceEntry struct {
	UserID string `json:"userId"`
	ConnID string `json:"connectionHandleId"`
}

func EncodeEvent(name string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: name, Data: raw})
}

func DecodeAddUser(data json.RawMessage) (*AddUserPayload, error) {
	var p AddUserPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("addUser: userId is required")
	}
	return &p, nil
}

func DecodeSendMessage(data json.RawMessage) (*SendMessagePayload, error) {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Receiver == "" || p.Message == "" {
		return nil, fmt.Errorf("sendMessage: receiver and message are required")
	}
	return &p, nil
}
