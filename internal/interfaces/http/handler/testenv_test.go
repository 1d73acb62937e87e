package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/servicehub/admin/internal/application/billing"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	projectapp "github.com/servicehub/admin/internal/application/project"
	qualificationapp "github.com/servicehub/admin/internal/application/qualification"
	"github.com/servicehub/admin/internal/infrastructure/auth"
	"github.com/servicehub/admin/internal/infrastructure/cache"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/servicehub/admin/internal/infrastructure/persistence"
	"github.com/servicehub/admin/internal/interfaces/http/dto"
	"github.com/servicehub/admin/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// anonymousHeader makes the test router skip the JWT user context
const anonymousHeader = "X-Test-Anonymous"

// testEnv wires the application services over an in-memory sqlite database
type testEnv struct {
	db       *persistence.Database
	tenantID uuid.UUID
	userID   uuid.UUID
	hasher   *auth.BcryptHasher

	companyRepo       *persistence.GormCompanyRepository
	walletRepo        *persistence.GormWalletTransactionRepository
	specialtyRepo     *persistence.GormSpecialtyRepository
	qualificationRepo *persistence.GormQualificationRepository

	specialties    *catalogapp.SpecialtyService
	products       *catalogapp.ProductService
	companies      *partnerapp.CompanyService
	wallets        *partnerapp.WalletService
	projects       *projectapp.ProjectService
	invoices       *billingapp.InvoiceService
	qualifications *qualificationapp.QualificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := cache.NewInMemoryIdempotencyStore(0)
	t.Cleanup(func() { _ = store.Close() })

	gdb := db.DB
	specialtyRepo := persistence.NewGormSpecialtyRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	companyRepo := persistence.NewGormCompanyRepository(gdb)
	walletRepo := persistence.NewGormWalletTransactionRepository(gdb)
	projectRepo := persistence.NewGormProjectRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	qualificationRepo := persistence.NewGormQualificationRepository(gdb)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	return &testEnv{
		db:                db,
		tenantID:          uuid.New(),
		userID:            uuid.New(),
		hasher:            hasher,
		companyRepo:       companyRepo,
		walletRepo:        walletRepo,
		specialtyRepo:     specialtyRepo,
		qualificationRepo: qualificationRepo,
		specialties:       catalogapp.NewSpecialtyService(specialtyRepo, productRepo),
		products:          catalogapp.NewProductService(productRepo, specialtyRepo, nil, nil),
		companies:         partnerapp.NewCompanyService(companyRepo, hasher),
		wallets:           partnerapp.NewWalletService(companyRepo, walletRepo, store, 0),
		projects:          projectapp.NewProjectService(projectRepo, companyRepo, productRepo),
		invoices:          billingapp.NewInvoiceService(invoiceRepo, invoiceRepo, companyRepo, projectRepo),
		qualifications:    qualificationapp.NewQualificationService(qualificationRepo, companyRepo, specialtyRepo, nil),
	}
}

// withAttachments rebuilds the qualification service over an attachment store
func (e *testEnv) withAttachments(storage qualificationapp.AttachmentStorage) {
	e.qualifications = qualificationapp.NewQualificationService(e.qualificationRepo, e.companyRepo, e.specialtyRepo, storage)
}

// topUps builds a card top-up service over the env wallet
func (e *testEnv) topUps(gateway partnerapp.PaymentGateway) *partnerapp.TopUpService {
	return partnerapp.NewTopUpService(e.companyRepo, e.walletRepo, e.wallets, gateway, partnerapp.TopUpPolicy{
		Currency: "usd",
		Min:      decimal.NewFromInt(10),
		Max:      decimal.NewFromInt(1000),
	})
}

// router returns an engine whose requests carry the env tenant and, unless
// the anonymous header is set, the env user as the authenticated caller
func (e *testEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, e.tenantID.String())
		if c.GetHeader(anonymousHeader) == "" {
			c.Set(middleware.JWTTenantIDKey, e.tenantID.String())
			c.Set(middleware.JWTUserIDKey, e.userID.String())
		}
		c.Next()
	})
	return r
}

// envelope mirrors dto.Response with the payload left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func perform(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// dataAs decodes the success payload of w into T
func dataAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "body: %s", w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// errorCode returns the error code of a failed response
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "body: %s", w.Body.String())
	return env.Error.Code
}
