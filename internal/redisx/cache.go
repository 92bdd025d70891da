package redisx

import (
	"context"
	"encoding/json"
	"time"

	"chat-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const messagesKeyPrefix = "cache:room-messages:"

var messagesTTL = 15 * time.Minute

// Client caches resolved room histories so repeated history reads skip the
// database. It implements domain.MessageCache.
type Client struct {
	R *redis.Client
}

func NewClient(addr string) *Client {
	return &Client{R: redis.NewClient(&redis.Options{Addr: addr, DB: 0})}
}

func (c *Client) GetMessages(ctx context.Context, roomID string) ([]domain.MessageWithSender, bool, error) {
	raw, err := c.R.Get(ctx, messagesKeyPrefix+roomID).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var messages []domain.MessageWithSender
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, err
	}
	return messages, true, nil
}

func (c *Client) SetMessages(ctx context.Context, roomID string, msgs []domain.MessageWithSender) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, messagesKeyPrefix+roomID, raw, messagesTTL).Err()
}

func (c *Client) Invalidate(ctx context.Context, roomID string) error {
	return c.R.Del(ctx, messagesKeyPrefix+roomID).Err()
}
