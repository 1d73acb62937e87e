package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	TenantAggregateModel
	Code        string         `gorm:"type:varchar(50);not null;index"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	CompanyID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID     `gorm:"type:uuid;index"`
	Status      project.Status `gorm:"type:varchar(20);not null;default:'planning';index"`
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Budget      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Tasks       []ProjectTaskModel `gorm:"foreignKey:ProjectID"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project with its tasks.
func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		CompanyID:           m.CompanyID,
		ProductID:           m.ProductID,
		Status:              m.Status,
		StartDate:           m.StartDate,
		DueDate:             m.DueDate,
		CompletedAt:         m.CompletedAt,
		Budget:              m.Budget,
		Tasks:               make([]project.Task, len(m.Tasks)),
	}
	for i, t := range m.Tasks {
		p.Tasks[i] = project.Task{
			ID:             t.ID,
			Title:          t.Title,
			Assignee:       t.Assignee,
			Status:         t.Status,
			EstimatedHours: t.EstimatedHours,
			SortOrder:      t.SortOrder,
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Project.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.CompanyID = p.CompanyID
	m.ProductID = p.ProductID
	m.Status = p.Status
	m.StartDate = p.StartDate
	m.DueDate = p.DueDate
	m.CompletedAt = p.CompletedAt
	m.Budget = p.Budget
	m.Tasks = make([]ProjectTaskModel, len(p.Tasks))
	for i, t := range p.Tasks {
		m.Tasks[i] = ProjectTaskModel{
			ID:             t.ID,
			ProjectID:      p.ID,
			Title:          t.Title,
			Assignee:       t.Assignee,
			Status:         t.Status,
			EstimatedHours: t.EstimatedHours,
			SortOrder:      t.SortOrder,
		}
	}
}

// ProjectModelFromDomain creates a new persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// ProjectTaskModel is the persistence model for a project task.
type ProjectTaskModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ProjectID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Title          string             `gorm:"type:varchar(200);not null"`
	Assignee       string             `gorm:"type:varchar(200)"`
	Status         project.TaskStatus `gorm:"type:varchar(20);not null;default:'todo'"`
	EstimatedHours decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	SortOrder      int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProjectTaskModel) TableName() string {
	return "project_tasks"
}
