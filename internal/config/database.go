package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Connect() (*sql.DB, error) {
	dbConfig := PostgresConfig{
		Host:     def(os.Getenv("DB_HOST"), "localhost"),
		Port:     def(os.Getenv("DB_PORT"), "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  "disable",
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host, dbConfig.Port, dbConfig.User, dbConfig.Password, dbConfig.DBName, dbConfig.SSLMode,
	)

	log.Println("connecting to database...")
	counter := 1
	for {
		db, err := sql.Open("pgx", dsn)
		if counter > 5 {
			return nil, fmt.Errorf("failed connect to database: %v", err)
		}

		if err != nil {
			log.Printf("retrying connect database (%v/5)", counter)
			counter++
			time.Sleep(2 * time.Second)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		log.Println("database connected")
		return db, nil
	}
}

// The users table is owned by the auth subsystem; it is created here only so
// the profile joins work on a fresh database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS chat_rooms (
		id         TEXT PRIMARY KEY,
		admin_id   TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT chat_rooms_pair UNIQUE (user_id, admin_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           TEXT PRIMARY KEY,
		sender_id    TEXT NOT NULL,
		receiver_id  TEXT NOT NULL,
		chat_room_id TEXT NOT NULL REFERENCES chat_rooms (id),
		body         TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS room_messages (
		position     BIGSERIAL PRIMARY KEY,
		chat_room_id TEXT NOT NULL REFERENCES chat_rooms (id),
		message_id   TEXT NOT NULL REFERENCES messages (id),
		UNIQUE (chat_room_id, message_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages (chat_room_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_rooms_updated ON chat_rooms (updated_at DESC)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
