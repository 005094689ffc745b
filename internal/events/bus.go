package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediapost/pkg/logger"

	"go.uber.org/zap"
)

const DefaultMaxSubscribers = 25

type subscription struct {
	name    string
	handler Handler
}

// FailureHook observes subscriber failures, e.g. for metrics.
type FailureHook func(kind Kind, subscriber string, err error)

// Bus is a synchronous in-process fan-out. Handlers run in registration order;
// an error or panic in one handler is logged and does not reach the publisher
// or the handlers after it.
type Bus struct {
	mu             sync.RWMutex
	handlers       map[Kind][]subscription
	maxSubscribers int
	logger         *logger.Logger
	onFailure      FailureHook
}

func NewBus(l *logger.Logger, maxSubscribers int) *Bus {
	if l == nil {
		l = logger.Nop()
	}
	if maxSubscribers <= 0 {
		maxSubscribers = DefaultMaxSubscribers
	}
	return &Bus{
		handlers:       make(map[Kind][]subscription),
		maxSubscribers: maxSubscribers,
		logger:         l,
	}
}

func (b *Bus) SetFailureHook(hook FailureHook) {
	b.mu.Lock()
	b.onFailure = hook
	b.mu.Unlock()
}

// Subscribe registers handler for kind. Exceeding the subscriber ceiling only logs a warning.
func (b *Bus) Subscribe(kind Kind, name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[kind] = append(b.handlers[kind], subscription{name: name, handler: handler})
	if n := len(b.handlers[kind]); n > b.maxSubscribers {
		b.logger.Warn(context.Background(), "Possible subscriber leak detected",
			zap.String("event_kind", string(kind)),
			zap.Int("subscribers", n),
			zap.Int("max_subscribers", b.maxSubscribers),
		)
	}
}

// SubscribeAll registers handler for every known kind.
func (b *Bus) SubscribeAll(name string, handler Handler) {
	for _, kind := range AllKinds {
		b.Subscribe(kind, name, handler)
	}
}

func (b *Bus) SubscriberCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

func (b *Bus) Publish(ctx context.Context, event LifecycleEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Kind]))
	copy(subs, b.handlers[event.Kind])
	hook := b.onFailure
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := invoke(ctx, sub.handler, event); err != nil {
			b.logger.Error(ctx, "Event subscriber failed",
				zap.String("event_kind", string(event.Kind)),
				zap.String("subscriber", sub.name),
				zap.String("post_id", event.PostID),
				zap.Error(err),
			)
			if hook != nil {
				hook(event.Kind, sub.name, err)
			}
		}
	}
}

func invoke(ctx context.Context, handler Handler, event LifecycleEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return handler(ctx, event)
}
