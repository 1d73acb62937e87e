package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
)

// SpecialtyService handles specialty-related business operations
type SpecialtyService struct {
	specialtyRepo  catalog.SpecialtyRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewSpecialtyService creates a new SpecialtyService
func NewSpecialtyService(
	specialtyRepo catalog.SpecialtyRepository,
	productRepo catalog.ProductRepository,
) *SpecialtyService {
	return &SpecialtyService{
		specialtyRepo: specialtyRepo,
		productRepo:   productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SpecialtyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new specialty
func (s *SpecialtyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSpecialtyRequest) (*SpecialtyResponse, error) {
	exists, err := s.specialtyRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Specialty with this code already exists")
	}

	specialty, err := catalog.NewSpecialty(tenantID, req.Code, req.Name, req.JuniorRate, req.MidRate, req.SeniorRate)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := specialty.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.specialtyRepo.Save(ctx, specialty); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, specialty); err != nil {
		return nil, err
	}

	response := ToSpecialtyResponse(specialty)
	return &response, nil
}

// GetByID retrieves a specialty by ID
func (s *SpecialtyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SpecialtyResponse, error) {
	specialty, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSpecialtyResponse(specialty)
	return &response, nil
}

// List retrieves specialties ordered by name
func (s *SpecialtyService) List(ctx context.Context, tenantID uuid.UUID, filter SpecialtyListFilter) ([]SpecialtyResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	specialties, err := s.specialtyRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.specialtyRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = ToSpecialtyResponse(&specialties[i])
	}
	return responses, total, nil
}

// Update changes name and description
func (s *SpecialtyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSpecialtyRequest) (*SpecialtyResponse, error) {
	specialty, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := specialty.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := specialty.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := specialty.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.specialtyRepo.Save(ctx, specialty); err != nil {
		return nil, err
	}

	response := ToSpecialtyResponse(specialty)
	return &response, nil
}

// SetRates replaces the hourly rates. Affected products are repriced by
// SpecialtyRatesChangedHandler once the event is published.
func (s *SpecialtyService) SetRates(ctx context.Context, tenantID, id uuid.UUID, req SetRatesRequest) (*SpecialtyResponse, error) {
	specialty, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := specialty.SetRates(req.JuniorRate, req.MidRate, req.SeniorRate); err != nil {
		return nil, err
	}

	if err := s.specialtyRepo.Save(ctx, specialty); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, specialty); err != nil {
		return nil, err
	}

	response := ToSpecialtyResponse(specialty)
	return &response, nil
}

// Activate makes a specialty selectable again
func (s *SpecialtyService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*SpecialtyResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*catalog.Specialty).Activate)
}

// Deactivate hides a specialty from new tasks
func (s *SpecialtyService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*SpecialtyResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*catalog.Specialty).Deactivate)
}

func (s *SpecialtyService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, apply func(*catalog.Specialty) error) (*SpecialtyResponse, error) {
	specialty, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(specialty); err != nil {
		return nil, err
	}
	if err := s.specialtyRepo.Save(ctx, specialty); err != nil {
		return nil, err
	}
	response := ToSpecialtyResponse(specialty)
	return &response, nil
}

// Delete removes a specialty that no product task or step references
func (s *SpecialtyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.specialtyRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	products, err := s.productRepo.FindBySpecialty(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return shared.NewDomainError("SPECIALTY_IN_USE", "Specialty is referenced by product tasks and cannot be deleted")
	}

	return s.specialtyRepo.DeleteForTenant(ctx, tenantID, id)
}

// Rates loads a rate snapshot covering every specialty referenced by tasks
func (s *SpecialtyService) Rates(ctx context.Context, tenantID uuid.UUID, tasks []catalog.Task) (catalog.SpecialtyRates, error) {
	return loadRates(ctx, s.specialtyRepo, tenantID, tasks)
}

func loadRates(ctx context.Context, repo catalog.SpecialtyRepository, tenantID uuid.UUID, tasks []catalog.Task) (catalog.SpecialtyRates, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range tasks {
		for _, id := range tasks[i].SpecialtyIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return catalog.SpecialtyRates{}, nil
	}

	specialties, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	return catalog.NewSpecialtyRates(specialties), nil
}
