package subscribers

import (
	"context"
	"fmt"

	"mediapost/internal/events"
)

type broadcaster interface {
	Broadcast(payload []byte)
}

// Feed pushes lifecycle envelopes to connected websocket clients.
func Feed(b broadcaster) events.Handler {
	return func(_ context.Context, e events.LifecycleEvent) error {
		payload, err := events.Encode(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Kind, err)
		}
		b.Broadcast(payload)
		return nil
	}
}
