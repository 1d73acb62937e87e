package catalog

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSpecialty names the specialty aggregate in events
const AggregateTypeSpecialty = "Specialty"

const (
	EventTypeSpecialtyCreated      = "SpecialtyCreated"
	EventTypeSpecialtyRatesChanged = "SpecialtyRatesChanged"
)

// SpecialtyCreatedEvent is published when a specialty is registered
type SpecialtyCreatedEvent struct {
	shared.BaseDomainEvent
	SpecialtyID uuid.UUID `json:"specialty_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
}

// NewSpecialtyCreatedEvent creates a new SpecialtyCreatedEvent
func NewSpecialtyCreatedEvent(s *Specialty) *SpecialtyCreatedEvent {
	return &SpecialtyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSpecialtyCreated, AggregateTypeSpecialty, s.ID, s.TenantID),
		SpecialtyID:     s.ID,
		Code:            s.Code,
		Name:            s.Name,
	}
}

// SpecialtyRatesChangedEvent is published when hourly rates change.
// Products priced automatically must be repriced.
type SpecialtyRatesChangedEvent struct {
	shared.BaseDomainEvent
	SpecialtyID uuid.UUID       `json:"specialty_id"`
	JuniorRate  decimal.Decimal `json:"junior_rate"`
	MidRate     decimal.Decimal `json:"mid_rate"`
	SeniorRate  decimal.Decimal `json:"senior_rate"`
}

// NewSpecialtyRatesChangedEvent creates a new SpecialtyRatesChangedEvent
func NewSpecialtyRatesChangedEvent(s *Specialty) *SpecialtyRatesChangedEvent {
	return &SpecialtyRatesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSpecialtyRatesChanged, AggregateTypeSpecialty, s.ID, s.TenantID),
		SpecialtyID:     s.ID,
		JuniorRate:      s.JuniorRate,
		MidRate:         s.MidRate,
		SeniorRate:      s.SeniorRate,
	}
}
