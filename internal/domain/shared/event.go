package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Events are queued on the
// aggregate and published once it has been saved.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// AggregateRef names the aggregate an event belongs to
type AggregateRef struct {
	ID   uuid.UUID `json:"id"`
	Type string    `json:"type"`
}

// BaseDomainEvent is embedded by concrete events and serializes as the
// common envelope next to their payload
type BaseDomainEvent struct {
	ID        uuid.UUID    `json:"event_id"`
	Type      string       `json:"event_type"`
	At        time.Time    `json:"occurred_at"`
	Aggregate AggregateRef `json:"aggregate"`
	Tenant    uuid.UUID    `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a new envelope with a fresh id and the current time
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now().UTC(),
		Aggregate: AggregateRef{ID: aggID, Type: aggType},
		Tenant:    tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate.ID }
func (e *BaseDomainEvent) AggregateType() string  { return e.Aggregate.Type }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Tenant }
