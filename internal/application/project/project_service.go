package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// ProjectService handles project-related business operations
type ProjectService struct {
	projectRepo    project.ProjectRepository
	companyRepo    partner.CompanyRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo project.ProjectRepository,
	companyRepo partner.CompanyRepository,
	productRepo catalog.ProductRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		companyRepo: companyRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProjectService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a project for an existing company, optionally seeded from a catalog product
func (s *ProjectService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "project", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrCompanyID, req.CompanyID.String(),
	)

	exists, err := s.projectRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Project with this code already exists")
	}

	if _, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, req.CompanyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_COMPANY", "Company not found")
		}
		return nil, err
	}

	p, err := project.NewProject(tenantID, req.Code, req.Name, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	budget := decimal.Zero
	if req.ProductID != nil {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
			}
			return nil, err
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())
		if err := p.LinkProduct(product.ID); err != nil {
			return nil, err
		}
		for i := range product.Tasks {
			task := &product.Tasks[i]
			if _, err := p.AddTask(task.Name, "", task.TotalHours()); err != nil {
				return nil, err
			}
		}
		budget = product.Price
	}
	if req.Budget != nil {
		budget = *req.Budget
	}

	if err := p.Update(req.Name, req.Description, req.StartDate, req.DueDate, budget); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, p); err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrProjectID, p.ID.String())
	response := ToProjectResponse(p, s.now())
	return &response, nil
}

// GetByID retrieves a project by its ID
func (s *ProjectService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(p, s.now())
	return &response, nil
}

// List returns one page of projects and the total count
func (s *ProjectService) List(ctx context.Context, tenantID uuid.UUID, filter ProjectListFilter) ([]ProjectListResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CompanyID != "" {
		domainFilter.Filters["company_id"] = filter.CompanyID
	}
	domainFilter = domainFilter.Normalize()

	projects, err := s.projectRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projectRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]ProjectListResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectListResponse(&projects[i], now)
	}
	return responses, total, nil
}

// Update applies a partial update. Omitted fields keep their value.
func (s *ProjectService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, description, start, due, budget := p.Name, p.Description, p.StartDate, p.DueDate, p.Budget
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.StartDate != nil {
		start = req.StartDate
	}
	if req.DueDate != nil {
		due = req.DueDate
	}
	if req.Budget != nil {
		budget = *req.Budget
	}
	if err := p.Update(name, description, start, due, budget); err != nil {
		return nil, err
	}

	return s.save(ctx, p)
}

// Delete removes a project. Only projects still in planning or cancelled can be deleted.
func (s *ProjectService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if p.Status != project.StatusPlanning && p.Status != project.StatusCancelled {
		return shared.NewDomainError("CANNOT_DELETE", "Only projects in planning or cancelled can be deleted")
	}
	return s.projectRepo.DeleteForTenant(ctx, tenantID, id)
}

// Start moves a project from planning to active
func (s *ProjectService) Start(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, (*project.Project).Start)
}

// Hold pauses an active project
func (s *ProjectService) Hold(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, (*project.Project).Hold)
}

// Resume reactivates a project on hold
func (s *ProjectService) Resume(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, (*project.Project).Resume)
}

// Complete closes an active or held project
func (s *ProjectService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, (*project.Project).Complete)
}

// Cancel aborts an open project
func (s *ProjectService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, (*project.Project).Cancel)
}

// AddTask appends a task to the project board
func (s *ProjectService) AddTask(ctx context.Context, tenantID, id uuid.UUID, req AddTaskRequest) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *project.Project) error {
		_, err := p.AddTask(req.Title, req.Assignee, req.EstimatedHours)
		return err
	})
}

// SetTaskStatus moves a task to another column
func (s *ProjectService) SetTaskStatus(ctx context.Context, tenantID, id, taskID uuid.UUID, req SetTaskStatusRequest) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *project.Project) error {
		return p.SetTaskStatus(taskID, project.TaskStatus(req.Status))
	})
}

// RemoveTask deletes a task from the project
func (s *ProjectService) RemoveTask(ctx context.Context, tenantID, id, taskID uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *project.Project) error {
		return p.RemoveTask(taskID)
	})
}

func (s *ProjectService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*project.Project) error) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

func (s *ProjectService) save(ctx context.Context, p *project.Project) (*ProjectResponse, error) {
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, p); err != nil {
		return nil, err
	}
	response := ToProjectResponse(p, s.now())
	return &response, nil
}
