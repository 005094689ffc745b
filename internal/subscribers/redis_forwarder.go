package subscribers

import (
	"context"
	"fmt"

	"mediapost/internal/events"
)

type channelPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// RedisForwarder republishes lifecycle envelopes on a Redis pub/sub channel.
type RedisForwarder struct {
	publisher channelPublisher
	channel   string
}

func NewRedisForwarder(p channelPublisher, channel string) *RedisForwarder {
	return &RedisForwarder{publisher: p, channel: channel}
}

func (f *RedisForwarder) Handle(ctx context.Context, e events.LifecycleEvent) error {
	payload, err := events.Encode(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Kind, err)
	}
	if _, err := f.publisher.Publish(ctx, f.channel, payload); err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.Kind, f.channel, err)
	}
	return nil
}
