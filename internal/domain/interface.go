package domain

import "context"

type RoomRepository interface {
	Save(ctx context.Context, room *ChatRoom) error
	FindByPair(ctx context.Context, userID, adminID string) (*ChatRoom, error)
	FindAll(ctx context.Context) ([]RoomWithUser, error)
	FindByUserID(ctx context.Context, userID string) ([]ChatRoom, error)
	MessageIDs(ctx context.Context, roomID string) ([]string, error)
}

type MessageRepository interface {
	// Save stores the message and appends its id to the owning room's list in
	// one transaction.
	Save(ctx context.Context, msg *Message) error
	FindByRoom(ctx context.Context, roomID string) ([]MessageWithSender, error)
}

type UserRepository interface {
	// FindProfile returns (nil, nil) when the user does not exist.
	FindProfile(ctx context.Context, id string) (*UserProfile, error)
}

type MessageCache interface {
	GetMessages(ctx context.Context, roomID string) ([]MessageWithSender, bool, error)
	SetMessages(ctx context.Context, roomID string, msgs []MessageWithSender) error
	Invalidate(ctx context.Context, roomID string) error
}

type MessagePublisher interface {
	PublishMessageCreated(ctx context.Context, msg *Message) error
}
