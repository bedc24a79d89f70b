package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher fans form events out on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher builds a publisher. A nil client yields a publisher that
// drops events.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Register subscribes the publisher to every event type.
func (p *RedisPublisher) Register(d Dispatcher) {
	if p == nil || p.client == nil || d == nil {
		return
	}
	SubscribeAll(d, p.Handle)
}

// Handle publishes a single event.
func (p *RedisPublisher) Handle(ctx context.Context, event Event) error {
	if p.client == nil {
		return nil
	}
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("publish event failed",
			zap.String("channel", p.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Encode serializes an event for the wire.
func Encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	return data, nil
}
