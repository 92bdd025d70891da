package http_delivery

import (
	"context"
	"encoding/json"
	"net/http"

	"chat-service/internal/domain"
)

// ChatService is what the REST layer needs from the usecase layer.
type ChatService interface {
	CreateRoom(ctx context.Context, userID, adminID string) (*domain.ChatRoom, bool, error)
	ListRooms(ctx context.Context) ([]domain.RoomWithUser, error)
	RoomsForUser(ctx context.Context, userID string) ([]domain.ChatRoom, error)
	AddMessage(ctx context.Context, chatRoomID, senderID, receiverID, body string) (*domain.Message, error)
	ListMessages(ctx context.Context, chatRoomID string) ([]domain.MessageWithSender, error)
}

type Handler struct {
	svc ChatService
}

func NewHandler(svc ChatService) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the chat API. Room creation is public; everything else
// requires an authenticated caller.
func (h *Handler) Routes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("POST /api/v1/create/chat-room", Wrap(h.CreateRoom))
	mux.Handle("GET /api/v1/chat-rooms/all", auth(Wrap(h.ListRooms)))
	mux.Handle("GET /api/v1/chat-room/{userId}", auth(Wrap(h.RoomByUser)))
	mux.Handle("POST /api/v1/new/message/{chatRoomId}", auth(Wrap(h.AddMessage)))
	mux.Handle("GET /api/v1/messages/{chatRoomId}", auth(Wrap(h.ListMessages)))
}

type createRoomRequest struct {
	User  string `json:"user"`
	Admin string `json:"admin"`
}

type addMessageRequest struct {
	Message  string `json:"message"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) error {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.NewValidationError("Invalid request body", "chatRoom")
	}

	room, created, err := h.svc.CreateRoom(r.Context(), req.User, req.Admin)
	if err != nil {
		return err
	}
	if !created {
		WriteJSON(w, "ChatRoom already exists!", http.StatusOK)
		return nil
	}
	WriteJSON(w, map[string]any{"success": true, "chatRoom": room}, http.StatusCreated)
	return nil
}

func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) error {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		return err
	}
	WriteJSON(w, map[string]any{"success": true, "chatRooms": rooms}, http.StatusOK)
	return nil
}

func (h *Handler) RoomByUser(w http.ResponseWriter, r *http.Request) error {
	rooms, err := h.svc.RoomsForUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		return err
	}
	WriteJSON(w, rooms, http.StatusOK)
	return nil
}

func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) error {
	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.NewValidationError("All the fields are mandatory", "message")
	}

	msg, err := h.svc.AddMessage(r.Context(), r.PathValue("chatRoomId"), req.Sender, req.Receiver, req.Message)
	if err != nil {
		return err
	}
	WriteJSON(w, map[string]any{"success": true, "newMessage": msg}, http.StatusCreated)
	return nil
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) error {
	messages, err := h.svc.ListMessages(r.Context(), r.PathValue("chatRoomId"))
	if err != nil {
		return err
	}
	WriteJSON(w, map[string]any{"success": true, "messages": messages}, http.StatusOK)
	return nil
}
