package subscribers

import (
	"mediapost/internal/events"
	"mediapost/internal/metrics"
	"mediapost/pkg/logger"
)

// Options selects the sinks attached to the bus. Nil sinks are skipped.
type Options struct {
	Logger  *logger.Logger
	Metrics metrics.Metrics
	Redis   *RedisForwarder
	NATS    *NATSForwarder
	Feed    broadcaster
}

// Register attaches every configured sink to all lifecycle kinds, audit first.
func Register(bus *events.Bus, opts Options) {
	m := opts.Metrics
	if m == nil {
		m = metrics.Noop{}
	}
	bus.SetFailureHook(func(kind events.Kind, subscriber string, _ error) {
		m.IncSubscriberFailure(string(kind), subscriber)
	})

	bus.SubscribeAll("audit", NewAudit(opts.Logger).Handle)
	bus.SubscribeAll("metrics", CountEvents(m))
	if opts.Redis != nil {
		bus.SubscribeAll("redis-forwarder", opts.Redis.Handle)
	}
	if opts.NATS != nil {
		bus.SubscribeAll("nats-forwarder", opts.NATS.Handle)
	}
	if opts.Feed != nil {
		bus.SubscribeAll("websocket-feed", Feed(opts.Feed))
	}
}
