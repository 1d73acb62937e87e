package qualification

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// AggregateTypeQualification names the aggregate in events
const AggregateTypeQualification = "Qualification"

// EventTypeQualificationStatusChanged is emitted on every workflow step, including creation
const EventTypeQualificationStatusChanged = "QualificationStatusChanged"

// QualificationStatusChangedEvent is published on every workflow transition
type QualificationStatusChangedEvent struct {
	shared.BaseDomainEvent
	QualificationID uuid.UUID `json:"qualification_id"`
	CompanyID       uuid.UUID `json:"company_id"`
	SpecialtyID     uuid.UUID `json:"specialty_id"`
	OldStatus       Status    `json:"old_status,omitempty"`
	NewStatus       Status    `json:"new_status"`
}

// NewQualificationStatusChangedEvent creates a new QualificationStatusChangedEvent
func NewQualificationStatusChangedEvent(q *Qualification, from, to Status) *QualificationStatusChangedEvent {
	return &QualificationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQualificationStatusChanged, AggregateTypeQualification, q.ID, q.TenantID),
		QualificationID: q.ID,
		CompanyID:       q.CompanyID,
		SpecialtyID:     q.SpecialtyID,
		OldStatus:       from,
		NewStatus:       to,
	}
}
