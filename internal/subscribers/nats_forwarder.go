package subscribers

import (
	"context"
	"fmt"
	"time"

	"mediapost/internal/events"
	"mediapost/pkg/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type subjectPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSForwarder republishes lifecycle envelopes on "<prefix>.<kind>".
type NATSForwarder struct {
	conn   subjectPublisher
	prefix string
}

func NewNATSForwarder(conn subjectPublisher, prefix string) *NATSForwarder {
	return &NATSForwarder{conn: conn, prefix: prefix}
}

func (f *NATSForwarder) Subject(kind events.Kind) string {
	if f.prefix == "" {
		return string(kind)
	}
	return f.prefix + "." + string(kind)
}

func (f *NATSForwarder) Handle(_ context.Context, e events.LifecycleEvent) error {
	payload, err := events.Encode(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Kind, err)
	}
	subject := f.Subject(e.Kind)
	if err := f.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// ConnectNATS dials url with unlimited reconnects and logged connection state changes.
func ConnectNATS(url string, l *logger.Logger) (*nats.Conn, error) {
	if l == nil {
		l = logger.Nop()
	}
	ctx := context.Background()
	opts := []nats.Option{
		nats.Name("mediapost-events"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			l.Warn(ctx, "Disconnected from NATS", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info(ctx, "Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			l.Info(ctx, "NATS connection closed")
		}),
	}
	return nats.Connect(url, opts...)
}
