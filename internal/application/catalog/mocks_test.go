package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, specialtyID)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Facets(ctx context.Context, tenantID uuid.UUID) (*catalog.ProductFacets, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductFacets), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
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
