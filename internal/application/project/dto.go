package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest represents a request to open a project.
// When ProductID is set the product's tasks are copied and its price is the default budget.
type CreateProjectRequest struct {
	Code        string           `json:"code" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	CompanyID   uuid.UUID        `json:"company_id" binding:"required"`
	ProductID   *uuid.UUID       `json:"product_id"`
	StartDate   *time.Time       `json:"start_date"`
	DueDate     *time.Time       `json:"due_date"`
	Budget      *decimal.Decimal `json:"budget" binding:"omitempty,decimal_gte0"`
	CreatedBy   *uuid.UUID       `json:"-"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	StartDate   *time.Time       `json:"start_date"`
	DueDate     *time.Time       `json:"due_date"`
	Budget      *decimal.Decimal `json:"budget" binding:"omitempty,decimal_gte0"`
}

// AddTaskRequest appends a task to a project
type AddTaskRequest struct {
	Title          string          `json:"title" binding:"required,min=1,max=200"`
	Assignee       string          `json:"assignee" binding:"max=100"`
	EstimatedHours decimal.Decimal `json:"estimated_hours" binding:"decimal_gte0"`
}

// SetTaskStatusRequest moves a task between board columns
type SetTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress done"`
}

// ProjectListFilter represents filter options for the project list
type ProjectListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=planning active on_hold completed cancelled"`
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=code name due_date created_at"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
}

// TaskResponse represents a project task
type TaskResponse struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Assignee       string          `json:"assignee"`
	Status         string          `json:"status"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	SortOrder      int             `json:"sort_order"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CompanyID      uuid.UUID       `json:"company_id"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Status         string          `json:"status"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	Budget         decimal.Decimal `json:"budget"`
	Progress       int             `json:"progress"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	Overdue        bool            `json:"overdue"`
	Tasks          []TaskResponse  `json:"tasks"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ProjectListResponse represents a list item for projects
type ProjectListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	CompanyID uuid.UUID       `json:"company_id"`
	Status    string          `json:"status"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	Budget    decimal.Decimal `json:"budget"`
	Progress  int             `json:"progress"`
	Overdue   bool            `json:"overdue"`
	TaskCount int             `json:"task_count"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *project.Project, now time.Time) ProjectResponse {
	tasks := make([]TaskResponse, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = TaskResponse{
			ID:             t.ID,
			Title:          t.Title,
			Assignee:       t.Assignee,
			Status:         string(t.Status),
			EstimatedHours: t.EstimatedHours,
			SortOrder:      t.SortOrder,
		}
	}
	return ProjectResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		CompanyID:      p.CompanyID,
		ProductID:      p.ProductID,
		Status:         string(p.Status),
		StartDate:      p.StartDate,
		DueDate:        p.DueDate,
		CompletedAt:    p.CompletedAt,
		Budget:         p.Budget,
		Progress:       p.Progress(),
		EstimatedHours: p.EstimatedHours(),
		Overdue:        p.IsOverdue(now),
		Tasks:          tasks,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProjectListResponse converts a domain Project to ProjectListResponse
func ToProjectListResponse(p *project.Project, now time.Time) ProjectListResponse {
	return ProjectListResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		CompanyID: p.CompanyID,
		Status:    string(p.Status),
		DueDate:   p.DueDate,
		Budget:    p.Budget,
		Progress:  p.Progress(),
		Overdue:   p.IsOverdue(now),
		TaskCount: len(p.Tasks),
		CreatedAt: p.CreatedAt,
	}
}
