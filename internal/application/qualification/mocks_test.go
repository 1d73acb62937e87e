package qualification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/qualification"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockQualificationRepository is a mock implementation of qualification.Repository
type MockQualificationRepository struct {
	mock.Mock
}

func (m *MockQualificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*qualification.Qualification, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qualification.Qualification), args.Error(1)
}

func (m *MockQualificationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]qualification.Qualification, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]qualification.Qualification), args.Error(1)
}

func (m *MockQualificationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQualificationRepository) Save(ctx context.Context, q *qualification.Qualification) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQualificationRepository) ExistsOpen(ctx context.Context, tenantID, companyID, specialtyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, companyID, specialtyID)
	return args.Bool(0), args.Error(1)
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

// MockSpecialtyRepository is a mock implementation of SpecialtyRepository
type MockSpecialtyRepository struct {
	mock.Mock
}

func (m *MockSpecialtyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Specialty, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Specialty), args.Error(1)
}

func (m *MockSpecialtyRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Specialty, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Specialty), args.Error(1)
}

func (m *MockSpecialtyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Specialty, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Specialty), args.Error(1)
}

func (m *MockSpecialtyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpecialtyRepository) Save(ctx context.Context, specialty *catalog.Specialty) error {
	args := m.Called(ctx, specialty)
	return args.Error(0)
}

func (m *MockSpecialtyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockSpecialtyRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

// MockStorage is a mock implementation of AttachmentStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}
