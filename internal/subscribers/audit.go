package subscribers

import (
	"context"

	"mediapost/internal/events"
	"mediapost/pkg/logger"

	"go.uber.org/zap"
)

// Audit writes one log line per lifecycle event.
type Audit struct {
	logger *logger.Logger
}

func NewAudit(l *logger.Logger) *Audit {
	if l == nil {
		l = logger.Nop()
	}
	return &Audit{logger: l}
}

func (a *Audit) Handle(ctx context.Context, e events.LifecycleEvent) error {
	fields := []zap.Field{
		zap.String("event_kind", string(e.Kind)),
		zap.String("event_request_id", e.RequestID),
		zap.Time("occurred_at", e.OccurredAt),
	}
	if e.PostID != "" {
		fields = append(fields, zap.String("post_id", e.PostID))
	}
	if e.FileID != "" {
		fields = append(fields, zap.String("file_id", e.FileID))
	}

	switch e.Kind {
	case events.KindFileUploaded:
		a.logger.Info(ctx, "[AUDIT] File uploaded", append(fields, zap.String("filename", e.Name))...)
	case events.KindPostCreated:
		a.logger.Info(ctx, "[AUDIT] Post created", append(fields, zap.String("name", e.Name))...)
	case events.KindPostDeleted:
		if e.Reason != "" {
			a.logger.Warn(ctx, "[AUDIT] Post deleted, file left behind", append(fields, zap.String("reason", e.Reason))...)
			return nil
		}
		a.logger.Info(ctx, "[AUDIT] Post deleted", fields...)
	case events.KindDeleteFailed:
		a.logger.Warn(ctx, "[ALERT] Post deletion failed", append(fields, zap.String("reason", e.Reason))...)
	default:
		a.logger.Debug(ctx, "[AUDIT] Unhandled event", fields...)
	}
	return nil
}
