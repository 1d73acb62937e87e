package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Task is a unit of work that makes up a product.
// A task with steps is valued by its steps; otherwise by its own hours.
type Task struct {
	ID          uuid.UUID
	Name        string
	Description string
	SpecialtyID *uuid.UUID
	Seniority   Seniority
	Hours       decimal.Decimal
	SortOrder   int
	Steps       []TaskStep
}

// TaskStep is a sub-unit of a task with its own estimate
type TaskStep struct {
	ID          uuid.UUID
	Name        string
	SpecialtyID *uuid.UUID
	Seniority   Seniority
	Hours       decimal.Decimal
	SortOrder   int
}

// NewTask creates a validated task without steps
func NewTask(name string, specialtyID *uuid.UUID, seniority Seniority, hours decimal.Decimal) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TASK", "Task name cannot be empty")
	}
	if seniority == "" {
		seniority = SeniorityMid
	}
	if !seniority.IsValid() {
		return nil, shared.NewDomainError("INVALID_SENIORITY", "Unknown seniority level: "+string(seniority))
	}
	if hours.IsNegative() {
		return nil, shared.NewDomainError("INVALID_HOURS", "Task hours cannot be negative")
	}
	return &Task{
		ID:          uuid.New(),
		Name:        name,
		SpecialtyID: specialtyID,
		Seniority:   seniority,
		Hours:       hours,
		Steps:       make([]TaskStep, 0),
	}, nil
}

// AddStep appends a step. Missing specialty and seniority inherit from the task.
func (t *Task) AddStep(name string, specialtyID *uuid.UUID, seniority Seniority, hours decimal.Decimal) (*TaskStep, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STEP", "Step name cannot be empty")
	}
	if hours.IsNegative() {
		return nil, shared.NewDomainError("INVALID_HOURS", "Step hours cannot be negative")
	}
	if specialtyID == nil {
		specialtyID = t.SpecialtyID
	}
	if seniority == "" {
		seniority = t.Seniority
	}
	if !seniority.IsValid() {
		return nil, shared.NewDomainError("INVALID_SENIORITY", "Unknown seniority level: "+string(seniority))
	}

	step := TaskStep{
		ID:          uuid.New(),
		Name:        name,
		SpecialtyID: specialtyID,
		Seniority:   seniority,
		Hours:       hours,
		SortOrder:   len(t.Steps),
	}
	t.Steps = append(t.Steps, step)
	return &t.Steps[len(t.Steps)-1], nil
}

// HasSteps returns true if the task is broken down into steps
func (t *Task) HasSteps() bool {
	return len(t.Steps) > 0
}

// TotalHours sums step hours, or returns the task's own hours when it has no steps
func (t *Task) TotalHours() decimal.Decimal {
	if !t.HasSteps() {
		return positiveOrZero(t.Hours)
	}
	total := decimal.Zero
	for _, s := range t.Steps {
		total = total.Add(positiveOrZero(s.Hours))
	}
	return total
}

// SpecialtyIDs returns every specialty the task or its steps reference
func (t *Task) SpecialtyIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Steps)+1)
	if t.SpecialtyID != nil {
		ids = append(ids, *t.SpecialtyID)
	}
	for _, s := range t.Steps {
		if s.SpecialtyID != nil {
			ids = append(ids, *s.SpecialtyID)
		}
	}
	return ids
}

// asStep views a step-less task as a single implicit step
func (t *Task) asStep() TaskStep {
	return TaskStep{
		Name:        t.Name,
		SpecialtyID: t.SpecialtyID,
		Seniority:   t.Seniority,
		Hours:       t.Hours,
	}
}

func positiveOrZero(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.Zero
}
