// Package events announces committed ledger changes to other systems.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/splitr/splitr/internal/metrics"
	"github.com/splitr/splitr/internal/money"
)

// Event types.
const (
	TypeExpenseCreated = "ledger.expense_created"
	TypePaymentCreated = "ledger.payment_created"
	TypeGroupDeleted   = "ledger.group_deleted"
)

// Event describes one ledger change. Consumers recompute balances from the
// ledger; the event carries no balance data.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	GroupID    string      `json:"groupId"`
	RecordID   string      `json:"recordId,omitempty"`
	ActorCode  string      `json:"actorUserCode"`
	Amount     money.Cents `json:"amount,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// New builds an event with a fresh ID and the current time.
func New(eventType, groupID, recordID, actor string, amount money.Cents) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		GroupID:    groupID,
		RecordID:   recordID,
		ActorCode:  actor,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct{}

// Publish implements Publisher.
func (LogPublisher) Publish(_ context.Context, event Event) error {
	slog.Info("Ledger event",
		"event_id", event.ID,
		"type", event.Type,
		"group_id", event.GroupID,
		"record_id", event.RecordID,
	)
	return nil
}

// Close implements Publisher.
func (LogPublisher) Close() error { return nil }

// PublishTimeout bounds how long PublishBestEffort waits for a publisher.
var PublishTimeout = 2 * time.Second

// PublishBestEffort publishes event and logs failures instead of returning
// them. The ledger write the event describes has already committed, so the
// publish ignores request cancellation but gives up after PublishTimeout.
func PublishBestEffort(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		slog.Error("Failed to publish event",
			"event_id", event.ID,
			"type", event.Type,
			"group_id", event.GroupID,
			"error", err,
		)
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}
