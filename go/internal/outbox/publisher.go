package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/events"
	"github.com/goosetap/goosetap/go/internal/outbox/worker"
)

// JetStreamAdapter bridges the listener's Publisher interface to the
// JetStream worker publisher.
type JetStreamAdapter struct {
	pub worker.EventPublisher
}

func NewJetStreamAdapter(pub worker.EventPublisher) *JetStreamAdapter {
	return &JetStreamAdapter{pub: pub}
}

func (a *JetStreamAdapter) Publish(ctx context.Context, event OutboxEvent) error {
	return a.pub.Publish(ctx, worker.OutboxEvent{
		ID:        event.ID,
		RoundID:   event.RoundID,
		EventType: event.EventType,
		Payload:   []byte(event.Payload),
		CreatedAt: event.CreatedAt,
	})
}

// Notifier publishes per-tap events straight to JetStream, bypassing the
// outbox table. Taps are far too frequent to justify a durable outbox row
// each; a dropped score push is corrected by the next one.
type Notifier struct {
	pub worker.EventPublisher
}

func NewNotifier(pub worker.EventPublisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) PublishTapApplied(ctx context.Context, payload events.TapAppliedPayload) error {
	return n.publish(ctx, events.TypeTapApplied, payload.RoundID, payload)
}

func (n *Notifier) PublishRoundUpdated(ctx context.Context, payload events.RoundUpdatedPayload) error {
	return n.publish(ctx, events.TypeRoundUpdated, payload.RoundID, payload)
}

func (n *Notifier) publish(ctx context.Context, eventType, roundID string, payload any) error {
	rid, err := uuid.Parse(roundID)
	if err != nil {
		return fmt.Errorf("invalid round ID %q: %w", roundID, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return n.pub.Publish(ctx, worker.OutboxEvent{
		ID:        uuid.New(),
		RoundID:   rid,
		EventType: eventType,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	})
}
