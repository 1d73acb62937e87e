package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

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
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) SaveWithTransaction(ctx context.Context, company *partner.Company, tx *partner.WalletTransaction) error {
	args := m.Called(ctx, company, tx)
	return args.Error(0)
}

func (m *MockCompanyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string) (bool, error) {
	args := m.Called(ctx, tenantID, document)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

// MockWalletTransactionRepository is a mock implementation of WalletTransactionRepository
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) FindByCompany(ctx context.Context, tenantID, companyID uuid.UUID, filter partner.WalletTransactionFilter) ([]partner.WalletTransaction, int64, error) {
	args := m.Called(ctx, tenantID, companyID, filter)
	return args.Get(0).([]partner.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletTransactionRepository) Summarize(ctx context.Context, tenantID, companyID uuid.UUID) (*partner.WalletSummary, error) {
	args := m.Called(ctx, tenantID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.WalletSummary), args.Error(1)
}

func (m *MockWalletTransactionRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, source partner.WalletSourceType, reference string) (bool, error) {
	args := m.Called(ctx, tenantID, source, reference)
	return args.Bool(0), args.Error(1)
}

// memoryKeys is a minimal idempotency store for service tests
type memoryKeys struct {
	keys map[string]bool
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: make(map[string]bool)}
}

func (m *memoryKeys) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryKeys) IsProcessed(_ context.Context, key string) (bool, error) {
	return m.keys[key], nil
}

func (m *memoryKeys) Release(_ context.Context, key string) error {
	delete(m.keys, key)
	return nil
}

func (m *memoryKeys) Close() error { return nil }

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Verify(h, p string) bool       { return h == "h:"+p }

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateTopUp(ctx context.Context, intent TopUpIntent) (*TopUpSession, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TopUpSession), args.Error(1)
}

func (m *MockPaymentGateway) ParseNotification(payload []byte, signature string) (*PaymentNotification, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentNotification), args.Error(1)
}
