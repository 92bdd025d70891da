package usecase

import (
	"context"
	"errors"
	"testing"

	"chat-service/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeRoomRepo struct {
	rooms   map[string]*domain.ChatRoom
	saveErr error
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*domain.ChatRoom)}
}

func (f *fakeRoomRepo) Save(ctx context.Context, room *domain.ChatRoom) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *room
	f.rooms[room.ID] = &cp
	return nil
}

func (f *fakeRoomRepo) FindByPair(ctx context.Context, userID, adminID string) (*domain.ChatRoom, error) {
	for _, room := range f.rooms {
		if room.UserID == userID && room.AdminID == adminID {
			cp := *room
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoomRepo) FindAll(ctx context.Context) ([]domain.RoomWithUser, error) {
	out := []domain.RoomWithUser{}
	for _, room := range f.rooms {
		out = append(out, domain.RoomWithUser{
			ChatRoom: *room,
			User:     domain.UserProfile{ID: room.UserID},
		})
	}
	return out, nil
}

func (f *fakeRoomRepo) FindByUserID(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	out := []domain.ChatRoom{}
	for _, room := range f.rooms {
		if room.UserID == userID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) MessageIDs(ctx context.Context, roomID string) ([]string, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return []string{}, nil
	}
	return room.MessageIDs, nil
}

type fakeMessageRepo struct {
	rooms   *fakeRoomRepo
	byRoom  map[string][]domain.MessageWithSender
	saveErr error
}

func newFakeMessageRepo(rooms *fakeRoomRepo) *fakeMessageRepo {
	return &fakeMessageRepo{rooms: rooms, byRoom: make(map[string][]domain.MessageWithSender)}
}

func (f *fakeMessageRepo) Save(ctx context.Context, msg *domain.Message) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.byRoom[msg.ChatRoomID] = append(f.byRoom[msg.ChatRoomID], domain.MessageWithSender{
		Message: *msg,
		Sender:  domain.UserProfile{ID: msg.SenderID},
	})
	if room, ok := f.rooms.rooms[msg.ChatRoomID]; ok {
		room.MessageIDs = append(room.MessageIDs, msg.ID)
	}
	return nil
}

func (f *fakeMessageRepo) FindByRoom(ctx context.Context, roomID string) ([]domain.MessageWithSender, error) {
	msgs, ok := f.byRoom[roomID]
	if !ok {
		return []domain.MessageWithSender{}, nil
	}
	return msgs, nil
}

type fakeCache struct {
	data        map[string][]domain.MessageWithSender
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]domain.MessageWithSender)}
}

func (f *fakeCache) GetMessages(ctx context.Context, roomID string) ([]domain.MessageWithSender, bool, error) {
	msgs, ok := f.data[roomID]
	return msgs, ok, nil
}

func (f *fakeCache) SetMessages(ctx context.Context, roomID string, msgs []domain.MessageWithSender) error {
	f.data[roomID] = msgs
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, roomID string) error {
	delete(f.data, roomID)
	f.invalidated = append(f.invalidated, roomID)
	return nil
}

type fakePublisher struct {
	published []*domain.Message
	err       error
}

func (f *fakePublisher) PublishMessageCreated(ctx context.Context, msg *domain.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func TestCreateRoomValidation(t *testing.T) {
	u := NewChatUsecase(newFakeRoomRepo(), nil, nil, nil)

	for _, tt := range []struct {
		name            string
		userID, adminID string
	}{
		{"missing user", "", "a1"},
		{"missing admin", "u1", ""},
		{"missing both", "", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := u.CreateRoom(context.Background(), tt.userID, tt.adminID)
			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			require.Equal(t, 400, derr.Code)
		})
	}
}

func TestCreateRoomIdempotent(t *testing.T) {
	rooms := newFakeRoomRepo()
	u := NewChatUsecase(rooms, nil, nil, nil)

	first, created, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, first.ID)
	require.Empty(t, first.MessageIDs)

	second, created, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, rooms.rooms, 1)

	// A different pair still creates a new room.
	third, created, err := u.CreateRoom(context.Background(), "u1", "a2")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, first.ID, third.ID)
}

func TestRoomsForUser(t *testing.T) {
	rooms := newFakeRoomRepo()
	u := NewChatUsecase(rooms, nil, nil, nil)

	_, err := u.RoomsForUser(context.Background(), "")
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, 404, derr.Code)

	room, _, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)

	got, err := u.RoomsForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, room.ID, got[0].ID)

	empty, err := u.RoomsForUser(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestAddMessageValidation(t *testing.T) {
	rooms := newFakeRoomRepo()
	messages := newFakeMessageRepo(rooms)
	u := NewChatUsecase(rooms, messages, nil, nil)

	for _, tt := range []struct {
		name                           string
		roomID, sender, receiver, body string
	}{
		{"empty body", "r1", "u1", "a1", ""},
		{"missing room", "", "u1", "a1", "hello"},
		{"missing sender", "r1", "", "a1", "hello"},
		{"missing receiver", "r1", "u1", "", "hello"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.AddMessage(context.Background(), tt.roomID, tt.sender, tt.receiver, tt.body)
			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			require.Equal(t, 400, derr.Code)
			require.Equal(t, "message", derr.Name)
			require.Empty(t, messages.byRoom, "no write should happen on validation failure")
		})
	}
}

func TestAddMessageAppends(t *testing.T) {
	rooms := newFakeRoomRepo()
	messages := newFakeMessageRepo(rooms)
	cache := newFakeCache()
	publisher := &fakePublisher{}
	u := NewChatUsecase(rooms, messages, cache, publisher)

	room, _, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)

	msg, err := u.AddMessage(context.Background(), room.ID, "u1", "a1", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)

	got, err := u.ListMessages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "hello", got[0].Body)

	ids, err := rooms.MessageIDs(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, []string{msg.ID}, ids)

	require.Len(t, publisher.published, 1)
	require.Equal(t, msg.ID, publisher.published[0].ID)
	require.Contains(t, cache.invalidated, room.ID)
}

func TestAddMessagePublishFailureIsNonFatal(t *testing.T) {
	rooms := newFakeRoomRepo()
	messages := newFakeMessageRepo(rooms)
	u := NewChatUsecase(rooms, messages, nil, &fakePublisher{err: errors.New("broker down")})

	room, _, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)

	msg, err := u.AddMessage(context.Background(), room.ID, "u1", "a1", "hello")
	require.NoError(t, err)
	require.NotNil(t, msg)
}

func TestListMessagesCache(t *testing.T) {
	rooms := newFakeRoomRepo()
	messages := newFakeMessageRepo(rooms)
	cache := newFakeCache()
	u := NewChatUsecase(rooms, messages, cache, nil)

	room, _, err := u.CreateRoom(context.Background(), "u1", "a1")
	require.NoError(t, err)
	_, err = u.AddMessage(context.Background(), room.ID, "u1", "a1", "hello")
	require.NoError(t, err)

	// First read misses the cache and fills it.
	got, err := u.ListMessages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, cache.data, room.ID)

	// A cached read does not touch the repository.
	messages.byRoom[room.ID] = nil
	cached, err := u.ListMessages(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, cached, 1)
}
