package project

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// AggregateTypeProject names the project aggregate in events
const AggregateTypeProject = "Project"

const (
	EventTypeProjectCreated       = "ProjectCreated"
	EventTypeProjectStatusChanged = "ProjectStatusChanged"
)

// ProjectCreatedEvent is published when a project is opened
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Code      string    `json:"code"`
	CompanyID uuid.UUID `json:"company_id"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID, p.TenantID),
		ProjectID:       p.ID,
		Code:            p.Code,
		CompanyID:       p.CompanyID,
	}
}

// ProjectStatusChangedEvent is published on every lifecycle transition
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewProjectStatusChangedEvent creates a new ProjectStatusChangedEvent
func NewProjectStatusChangedEvent(p *Project, from, to Status) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, AggregateTypeProject, p.ID, p.TenantID),
		ProjectID:       p.ID,
		OldStatus:       from,
		NewStatus:       to,
	}
}
