package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/redis/go-redis/v9"
)

// Publisher: часть *redis.Client, нужная для PUBLISH
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisSink публикует события в канал Redis, на который подписан веб-интерфейс
type RedisSink struct {
	client  Publisher
	channel string
}

func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, event model.SlotEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
