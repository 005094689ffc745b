package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Publisher sends raw payloads to a pub/sub channel.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish returns how many subscribers received the payload.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	return p.client.Publish(ctx, channel, payload).Result()
}
