package events

import (
	"time"

	"ai-concierge-be/pkg/query"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CONCIERGE_TURN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeConciergeTurn = "CONCIERGE_TURN"

// NewTurnEvent wraps a completed concierge turn for the presentation layer.
// The avatar/speech side consumes the emotion and text; everything else is
// diagnostic.
func NewTurnEvent(sessionID string, res *query.UnifiedResponse) Event {
	return BaseEvent{
		Type: TypeConciergeTurn,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"text":         res.Text,
			"emotion":      string(res.Emotion),
			"language":     string(res.Language),
			"responder":    string(res.Responder),
			"category":     string(res.Metadata.Category),
			"request_type": string(res.Metadata.RequestType),
		},
		OccurredAt: time.Now(),
	}
}
