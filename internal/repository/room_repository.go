package repository

import (
	"context"
	"database/sql"

	"chat-service/internal/domain"
)

type RoomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Save(ctx context.Context, room *domain.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (id, admin_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, admin_id) DO NOTHING
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		room.ID,
		room.AdminID,
		room.UserID,
		room.CreatedAt,
		room.UpdatedAt,
	)
	return err
}

func (r *RoomRepository) FindByPair(ctx context.Context, userID, adminID string) (*domain.ChatRoom, error) {
	query := `
		SELECT id, admin_id, user_id, created_at, updated_at
		FROM chat_rooms
		WHERE user_id = $1 AND admin_id = $2
	`
	row := r.db.QueryRowContext(ctx, query, userID, adminID)

	var room domain.ChatRoom
	err := row.Scan(
		&room.ID,
		&room.AdminID,
		&room.UserID,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	room.MessageIDs, err = r.MessageIDs(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) FindAll(ctx context.Context) ([]domain.RoomWithUser, error) {
	query := `
		SELECT r.id, r.admin_id, r.user_id, r.created_at, r.updated_at,
		       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.image, '')
		FROM chat_rooms r
		LEFT JOIN users u ON u.id = r.user_id
		ORDER BY r.updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.RoomWithUser
	for rows.Next() {
		var room domain.RoomWithUser
		err := rows.Scan(
			&room.ID,
			&room.AdminID,
			&room.UserID,
			&room.CreatedAt,
			&room.UpdatedAt,
			&room.User.Name,
			&room.User.Email,
			&room.User.Image,
		)
		if err != nil {
			return nil, err
		}
		room.User.ID = room.UserID
		rooms = append(rooms, room)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		rooms[i].MessageIDs, err = r.MessageIDs(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

func (r *RoomRepository) FindByUserID(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	query := `
		SELECT id, admin_id, user_id, created_at, updated_at
		FROM chat_rooms
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.ChatRoom
	for rows.Next() {
		var room domain.ChatRoom
		err := rows.Scan(
			&room.ID,
			&room.AdminID,
			&room.UserID,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		rooms[i].MessageIDs, err = r.MessageIDs(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// MessageIDs returns the room's owned message list in insertion order.
func (r *RoomRepository) MessageIDs(ctx context.Context, roomID string) ([]string, error) {
	query := `
		SELECT message_id
		FROM room_messages
		WHERE chat_room_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
