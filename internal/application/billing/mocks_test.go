package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, period time.Time) (int, error) {
	args := m.Called(ctx, tenantID, period)
	return args.Int(0), args.Error(1)
}

// MockWalletPaymentRepository is a mock implementation of WalletPaymentRepository
type MockWalletPaymentRepository struct {
	mock.Mock
}

func (m *MockWalletPaymentRepository) SavePaidWithWallet(ctx context.Context, invoice *billing.Invoice, company *partner.Company, tx *partner.WalletTransaction) error {
	return m.Called(ctx, invoice, company, tx).Error(0)
}

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Company, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepository) SaveWithTransaction(ctx context.Context, company *partner.Company, tx *partner.WalletTransaction) error {
	return m.Called(ctx, company, tx).Error(0)
}

func (m *MockCompanyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockCompanyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string) (bool, error) {
	args := m.Called(ctx, tenantID, document)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProjectRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

// MockPrinter is a mock implementation of InvoicePrinter
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) RenderHTML(ctx context.Context, doc *InvoiceDocument) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPrinter) RenderPDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
