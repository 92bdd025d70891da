package repository

import (
	"context"
	"database/sql"

	"chat-service/internal/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Save inserts the message, appends its id to the owning room's list and
// bumps the room's updated_at, all in one transaction so a room never
// references a missing message.
func (r *MessageRepository) Save(ctx context.Context, msg *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO messages (
			id, sender_id, receiver_id, chat_room_id, body, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(
		ctx,
		insert,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.ChatRoomID,
		msg.Body,
		msg.CreatedAt,
		msg.UpdatedAt,
	)
	if err != nil {
		return err
	}

	appendQuery := `
		INSERT INTO room_messages (chat_room_id, message_id)
		VALUES ($1, $2)
	`
	if _, err = tx.ExecContext(ctx, appendQuery, msg.ChatRoomID, msg.ID); err != nil {
		return err
	}

	touch := `UPDATE chat_rooms SET updated_at = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, touch, msg.ChatRoomID, msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *MessageRepository) FindByRoom(ctx context.Context, roomID string) ([]domain.MessageWithSender, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.chat_room_id, m.body, m.created_at, m.updated_at,
		       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.image, '')
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at, m.id
	`
	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.MessageWithSender{}
	for rows.Next() {
		var msg domain.MessageWithSender
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.ChatRoomID,
			&msg.Body,
			&msg.CreatedAt,
			&msg.UpdatedAt,
			&msg.Sender.Name,
			&msg.Sender.Email,
			&msg.Sender.Image,
		)
		if err != nil {
			return nil, err
		}
		msg.Sender.ID = msg.SenderID
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
