package project

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskStatus is the board column of a project task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is known
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a work item inside a project
type Task struct {
	ID             uuid.UUID
	Title          string
	Assignee       string
	Status         TaskStatus
	EstimatedHours decimal.Decimal
	SortOrder      int
}
