package subscribers

import (
	"context"

	"mediapost/internal/events"
	"mediapost/internal/metrics"
)

// CountEvents returns a handler that counts events by kind.
func CountEvents(m metrics.Metrics) events.Handler {
	return func(_ context.Context, e events.LifecycleEvent) error {
		m.IncLifecycleEvent(string(e.Kind))
		return nil
	}
}
