package domain

import "time"

// UserProfile is the public projection of a user owned by the auth subsystem.
// The chat service only reads it, to resolve names and avatars on listings.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// ChatRoom pairs one end user with one admin. At most one room exists per
// (user, admin) pair; creation is idempotent. The room owns the ordered list
// of message ids, messages themselves are stored standalone.
type ChatRoom struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin"`
	UserID     string    `json:"user"`
	MessageIDs []string  `json:"messages"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Message is immutable once stored; there is no update or delete operation.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender"`
	ReceiverID string    `json:"receiver"`
	ChatRoomID string    `json:"chatRoom"`
	Body       string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RoomWithUser is the listing view of a room with the user's profile
// resolved. The profile shadows the bare user id in the JSON output.
type RoomWithUser struct {
	ChatRoom
	User UserProfile `json:"user"`
}

// MessageWithSender is the history view of a message with the sender's
// profile resolved.
type MessageWithSender struct {
	Message
	Sender UserProfile `json:"sender"`
}
