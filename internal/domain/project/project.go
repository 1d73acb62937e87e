package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle stage of a project
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled projects
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Project tracks the delivery of work for a company
type Project struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	CompanyID   uuid.UUID
	ProductID   *uuid.UUID
	Status      Status
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
	Budget      decimal.Decimal
	Tasks       []Task
}

// NewProject creates a project in planning
func NewProject(tenantID uuid.UUID, code, name string, companyID uuid.UUID) (*Project, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot exceed 50 characters")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Project must belong to a company")
	}

	p := &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		CompanyID:           companyID,
		Status:              StatusPlanning,
		Budget:              decimal.Zero,
		Tasks:               make([]Task, 0),
	}

	p.AddDomainEvent(NewProjectCreatedEvent(p))

	return p, nil
}

// Update changes descriptive fields, schedule and budget
func (p *Project) Update(name, description string, start, due *time.Time, budget decimal.Decimal) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateSchedule(start, due); err != nil {
		return err
	}
	if budget.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.StartDate = start
	p.DueDate = due
	p.Budget = budget.Round(2)
	p.IncrementVersion()
	return nil
}

// LinkProduct records the catalog product the project delivers
func (p *Project) LinkProduct(productID uuid.UUID) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	p.ProductID = &productID
	p.IncrementVersion()
	return nil
}

// AddTask appends a task in todo
func (p *Project) AddTask(title, assignee string, estimatedHours decimal.Decimal) (*Task, error) {
	if err := p.ensureEditable(); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TASK", "Task title cannot be empty")
	}
	if estimatedHours.IsNegative() {
		return nil, shared.NewDomainError("INVALID_HOURS", "Estimated hours cannot be negative")
	}

	p.Tasks = append(p.Tasks, Task{
		ID:             uuid.New(),
		Title:          title,
		Assignee:       strings.TrimSpace(assignee),
		Status:         TaskStatusTodo,
		EstimatedHours: estimatedHours,
		SortOrder:      len(p.Tasks),
	})
	p.IncrementVersion()
	return &p.Tasks[len(p.Tasks)-1], nil
}

// SetTaskStatus moves a task between todo, in progress and done
func (p *Project) SetTaskStatus(taskID uuid.UUID, status TaskStatus) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status: "+string(status))
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			if p.Tasks[i].Status == status {
				return nil
			}
			p.Tasks[i].Status = status
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Task not found")
}

// RemoveTask deletes a task
func (p *Project) RemoveTask(taskID uuid.UUID) error {
	if err := p.ensureEditable(); err != nil {
		return err
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Task not found")
}

// Progress is the percentage of done tasks, rounded down. Zero when there are no tasks.
func (p *Project) Progress() int {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range p.Tasks {
		if t.Status == TaskStatusDone {
			done++
		}
	}
	return done * 100 / len(p.Tasks)
}

// EstimatedHours sums task estimates
func (p *Project) EstimatedHours() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.Tasks {
		total = total.Add(t.EstimatedHours)
	}
	return total
}

// IsOverdue is true for open projects past their due date
func (p *Project) IsOverdue(now time.Time) bool {
	if p.Status.IsTerminal() || p.DueDate == nil {
		return false
	}
	return now.After(*p.DueDate)
}

// Start moves a planned project to active
func (p *Project) Start() error {
	if p.Status != StatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Only projects in planning can be started")
	}
	if p.StartDate == nil {
		now := time.Now()
		p.StartDate = &now
	}
	return p.transition(StatusActive)
}

// Hold pauses an active project
func (p *Project) Hold() error {
	if p.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active projects can be put on hold")
	}
	return p.transition(StatusOnHold)
}

// Resume reactivates a project on hold
func (p *Project) Resume() error {
	if p.Status != StatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Only projects on hold can be resumed")
	}
	return p.transition(StatusActive)
}

// Complete closes an active or held project
func (p *Project) Complete() error {
	if p.Status != StatusActive && p.Status != StatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Only active or on hold projects can be completed")
	}
	now := time.Now()
	p.CompletedAt = &now
	return p.transition(StatusCompleted)
}

// Cancel aborts any open project
func (p *Project) Cancel() error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Project is already closed")
	}
	return p.transition(StatusCancelled)
}

func (p *Project) transition(to Status) error {
	from := p.Status
	p.Status = to
	p.IncrementVersion()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p, from, to))
	return nil
}

func (p *Project) ensureEditable() error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Closed projects cannot be modified")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	return nil
}

func validateSchedule(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Due date cannot be before start date")
	}
	return nil
}
