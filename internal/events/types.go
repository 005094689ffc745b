package events

import (
	"context"
	"time"
)

// Kind identifies a post lifecycle event.
type Kind string

const (
	KindPostCreated  Kind = "post.created"
	KindPostDeleted  Kind = "post.deleted"
	KindFileUploaded Kind = "post.file_uploaded"
	KindDeleteFailed Kind = "post.delete_failed"
)

// AllKinds lists every kind in a stable order.
var AllKinds = []Kind{KindPostCreated, KindPostDeleted, KindFileUploaded, KindDeleteFailed}

// LifecycleEvent is passed by value to every subscriber.
type LifecycleEvent struct {
	Kind       Kind      `json:"kind"`
	PostID     string    `json:"postId,omitempty"`
	FileID     string    `json:"fileId,omitempty"`
	Name       string    `json:"name,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	RequestID  string    `json:"requestId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Handler func(ctx context.Context, event LifecycleEvent) error

// Publisher is what the post service needs from the bus.
type Publisher interface {
	Publish(ctx context.Context, event LifecycleEvent)
}
