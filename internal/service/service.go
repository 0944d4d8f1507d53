package service

import (
	"context"
	"log/slog"

	"connectly/internal/queue"
)

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// publish appends an activity event. The write that triggered the event has
// already committed, so a failure is logged and otherwise ignored.
func publish(ctx context.Context, publisher queue.Publisher, logger *slog.Logger, event queue.ActivityEvent) {
	if publisher == nil {
		return
	}
	msgID, err := publisher.Publish(ctx, queue.StreamActivity, event)
	if err != nil {
		logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "err", err)
		return
	}
	logger.DebugContext(ctx, "published event", "type", event.Type, "msg_id", msgID)
}
