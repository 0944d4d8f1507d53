package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event ActivityEvent) (messageID string, err error)
}

// maxStreamLen caps the activity stream; trimming is approximate.
const maxStreamLen = 100000

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event ActivityEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	p.logger.DebugContext(ctx, "event published",
		"stream", stream, "type", event.Type, "msg_id", messageID, "duration", time.Since(startTime))
	return messageID, nil
}

// NopPublisher discards events. It is used when no Redis URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, stream string, event ActivityEvent) (string, error) {
	return "", nil
}
