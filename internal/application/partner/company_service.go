package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
)

// CompanyService handles company registration, status and portal credentials
type CompanyService struct {
	companyRepo    partner.CompanyRepository
	hasher         shared.PasswordHasher
	eventPublisher shared.EventPublisher
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo partner.CompanyRepository, hasher shared.PasswordHasher) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		hasher:      hasher,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CompanyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a company. Documents are unique per tenant.
func (s *CompanyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCompanyRequest) (*CompanyResponse, error) {
	document, err := partner.NormalizeDocument(req.Document)
	if err != nil {
		return nil, err
	}
	exists, err := s.companyRepo.ExistsByDocument(ctx, tenantID, document)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this document already exists")
	}

	company, err := partner.NewCompany(tenantID, req.Name, document, partner.CompanyType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		company.SetCreatedBy(*req.CreatedBy)
	}
	if req.TradeName != "" {
		if err := company.Update(req.Name, req.TradeName); err != nil {
			return nil, err
		}
	}
	if err := company.SetContact(req.ContactName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		company.SetNotes(req.Notes)
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company with its credentials
func (s *CompanyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// List returns one page of companies and the total count
func (s *CompanyService) List(ctx context.Context, tenantID uuid.UUID, filter CompanyListFilter) ([]CompanyListResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "name"
		if domainFilter.OrderDir == "" {
			domainFilter.OrderDir = "asc"
		}
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter = domainFilter.Normalize()

	companies, err := s.companyRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.companyRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CompanyListResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyListResponse(&companies[i])
	}
	return responses, total, nil
}

// Update applies a partial profile update. Omitted fields keep their value.
func (s *CompanyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.TradeName != nil {
		name, tradeName := company.Name, company.TradeName
		if req.Name != nil {
			name = *req.Name
		}
		if req.TradeName != nil {
			tradeName = *req.TradeName
		}
		if err := company.Update(name, tradeName); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.Email != nil || req.Phone != nil || req.Address != nil {
		contactName, email, phone, address := company.ContactName, company.Email, company.Phone, company.Address
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := company.SetContact(contactName, email, phone, address); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		company.SetNotes(*req.Notes)
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete removes a company. Companies with money in the wallet are kept.
func (s *CompanyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !company.Balance.IsZero() {
		return shared.NewDomainError("WALLET_NOT_EMPTY", "Cannot delete a company with a wallet balance")
	}
	return s.companyRepo.DeleteForTenant(ctx, tenantID, id)
}

// Activate re-enables a company
func (s *CompanyService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*partner.Company).Activate)
}

// Deactivate disables a company
func (s *CompanyService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*partner.Company).Deactivate)
}

// Block suspends a company with a reason
func (s *CompanyService) Block(ctx context.Context, tenantID, id uuid.UUID, req BlockCompanyRequest) (*CompanyResponse, error) {
	return s.changeStatus(ctx, tenantID, id, func(c *partner.Company) error {
		return c.Block(req.Reason)
	})
}

func (s *CompanyService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, transition func(*partner.Company) error) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := transition(company); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// AddCredential creates a portal login. Usernames are unique across the tenant.
func (s *CompanyService) AddCredential(ctx context.Context, tenantID, companyID uuid.UUID, req AddCredentialRequest) (*CredentialResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	taken, err := s.companyRepo.ExistsByUsername(ctx, tenantID, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	credential, err := company.AddCredential(s.hasher, req.Username, req.Email, partner.CredentialRole(req.Role), req.Password, req.ConfirmPassword)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		return nil, err
	}

	response := ToCredentialResponse(credential)
	return &response, nil
}

// ResetCredentialPassword replaces a credential's password
func (s *CompanyService) ResetCredentialPassword(ctx context.Context, tenantID, companyID, credentialID uuid.UUID, req ResetCredentialPasswordRequest) error {
	return s.mutateCredentials(ctx, tenantID, companyID, func(c *partner.Company) error {
		return c.ResetCredentialPassword(s.hasher, credentialID, req.Password, req.ConfirmPassword)
	})
}

// SetCredentialActive enables or disables a credential
func (s *CompanyService) SetCredentialActive(ctx context.Context, tenantID, companyID, credentialID uuid.UUID, active bool) error {
	return s.mutateCredentials(ctx, tenantID, companyID, func(c *partner.Company) error {
		return c.SetCredentialActive(credentialID, active)
	})
}

// RemoveCredential deletes a credential
func (s *CompanyService) RemoveCredential(ctx context.Context, tenantID, companyID, credentialID uuid.UUID) error {
	return s.mutateCredentials(ctx, tenantID, companyID, func(c *partner.Company) error {
		return c.RemoveCredential(credentialID)
	})
}

func (s *CompanyService) mutateCredentials(ctx context.Context, tenantID, companyID uuid.UUID, mutate func(*partner.Company) error) error {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID)
	if err != nil {
		return err
	}
	if err := mutate(company); err != nil {
		return err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return err
	}
	return shared.PublishAndClear(ctx, s.eventPublisher, company)
}
