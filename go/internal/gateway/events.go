package gateway

import (
	"encoding/json"
	"time"

	"github.com/goosetap/goosetap/go/internal/events"
)

// RoundEvent is the envelope pushed to WebSocket clients watching a round
type RoundEvent struct {
	ID        string          `json:"id"`        // Event UUID
	RoundID   string          `json:"round_id"`  // Round UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of round event
type EventType string

const (
	EventTypeRoundCreated EventType = "RoundCreated"
	EventTypeTapApplied   EventType = "TapApplied"
	EventTypeRoundUpdated EventType = "RoundUpdated"
)

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *RoundEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeRoundCreated:
		var payload events.RoundCreatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeTapApplied:
		var payload events.TapAppliedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeRoundUpdated:
		var payload events.RoundUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil // Unknown event type
	}
}
