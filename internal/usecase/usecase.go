package usecase

import (
	"context"
	"log"
	"time"

	"chat-service/internal/domain"

	"github.com/google/uuid"
)

// ChatUsecase carries the persisted chat operations shared by the REST layer
// and, when persist-on-send is enabled, the realtime handler.
type ChatUsecase struct {
	rooms     domain.RoomRepository
	messages  domain.MessageRepository
	cache     domain.MessageCache     // optional
	publisher domain.MessagePublisher // optional
}

func NewChatUsecase(
	rooms domain.RoomRepository,
	messages domain.MessageRepository,
	cache domain.MessageCache,
	publisher domain.MessagePublisher,
) *ChatUsecase {
	return &ChatUsecase{
		rooms:     rooms,
		messages:  messages,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateRoom is idempotent per (user, admin) pair: a second call returns the
// existing room and reports created=false.
func (u *ChatUsecase) CreateRoom(ctx context.Context, userID, adminID string) (*domain.ChatRoom, bool, error) {
	if userID == "" || adminID == "" {
		return nil, false, domain.NewValidationError("Sender and Receiver Id are Required", "chatRoom")
	}

	existing, err := u.rooms.FindByPair(ctx, userID, adminID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	room := &domain.ChatRoom{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		UserID:     userID,
		MessageIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.rooms.Save(ctx, room); err != nil {
		return nil, false, err
	}
	return room, true, nil
}

func (u *ChatUsecase) ListRooms(ctx context.Context) ([]domain.RoomWithUser, error) {
	return u.rooms.FindAll(ctx)
}

func (u *ChatUsecase) RoomsForUser(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	if userID == "" {
		return nil, domain.NewNotFoundError("Chat Room not found!", "chatRoom")
	}
	return u.rooms.FindByUserID(ctx, userID)
}

// AddMessage validates, stores the message and appends it to the owning
// room's list. Cache invalidation and event publishing are best effort.
func (u *ChatUsecase) AddMessage(ctx context.Context, chatRoomID, senderID, receiverID, body string) (*domain.Message, error) {
	if body == "" || chatRoomID == "" || senderID == "" || receiverID == "" {
		return nil, domain.NewValidationError("All the fields are mandatory", "message")
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		ChatRoomID: chatRoomID,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.messages.Save(ctx, msg); err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, chatRoomID); err != nil {
			log.Printf("invalidate message cache for room %s: %v", chatRoomID, err)
		}
	}
	if u.publisher != nil {
		if err := u.publisher.PublishMessageCreated(ctx, msg); err != nil {
			log.Printf("publish message %s: %v", msg.ID, err)
		}
	}

	return msg, nil
}

func (u *ChatUsecase) ListMessages(ctx context.Context, chatRoomID string) ([]domain.MessageWithSender, error) {
	if u.cache != nil {
		cached, ok, err := u.cache.GetMessages(ctx, chatRoomID)
		if err != nil {
			log.Printf("message cache read for room %s: %v", chatRoomID, err)
		} else if ok {
			return cached, nil
		}
	}

	messages, err := u.messages.FindByRoom(ctx, chatRoomID)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetMessages(ctx, chatRoomID, messages); err != nil {
			log.Printf("message cache write for room %s: %v", chatRoomID, err)
		}
	}

	return messages, nil
}
