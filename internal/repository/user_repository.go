package repository

import (
	"context"
	"database/sql"

	"chat-service/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	query := `
		SELECT id, name, email, image
		FROM users
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var profile domain.UserProfile
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Image,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}
