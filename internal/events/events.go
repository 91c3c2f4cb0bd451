// Package events is the outbound-event seam. Activity and notification
// objects are still echoed in API responses, but they are also published
// here, where subscribers (the structured log, the automation engine) can
// react to them.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one outbound occurrence: an activity entry, a notification, or an
// automation run.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CompanyID  string    `json:"company_id,omitempty"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New builds an event with a fresh id and timestamp.
func New(eventType, companyID, entityType, entityID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CompanyID:  companyID,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher accepts outbound events. Publish must not block request
// handling; implementations fan out synchronously to cheap subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Handler consumes published events.
type Handler func(ctx context.Context, e Event)

// Dispatcher fans events out to registered handlers and always logs them.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewDispatcher returns a dispatcher that logs every event.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe registers a handler for all subsequent events.
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Publish logs the event and invokes every subscriber in order.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	d.logger.Info("event published",
		"event_id", e.ID,
		"type", e.Type,
		"company_id", e.CompanyID,
		"entity_type", e.EntityType,
		"entity_id", e.EntityID,
	)

	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}
