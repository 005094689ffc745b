package events

import (
	"encoding/json"
	"time"
)

const AggregateTypePost = "post"

// Envelope is the wire form used when an event leaves the process.
type Envelope struct {
	EventType     Kind            `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(event LifecycleEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventType:     event.Kind,
		AggregateType: AggregateTypePost,
		AggregateID:   event.PostID,
		OccurredAt:    event.OccurredAt,
		Payload:       payload,
	}, nil
}

// Encode marshals the event into its envelope bytes.
func Encode(event LifecycleEvent) ([]byte, error) {
	env, err := NewEnvelope(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
