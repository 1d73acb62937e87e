package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestSpecialty(t *testing.T, tenantID uuid.UUID) *catalog.Specialty {
	t.Helper()
	s, err := catalog.NewSpecialty(tenantID, "DEV", "Development", dec("80"), dec("100"), dec("150"))
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, code string, specialtyID *uuid.UUID, hours string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, code, "Landing page", "Web")
	require.NoError(t, err)
	task, err := catalog.NewTask("Build", specialtyID, catalog.SeniorityMid, dec(hours))
	require.NoError(t, err)
	require.NoError(t, p.ReplaceTasks([]catalog.Task{*task}))
	p.ClearDomainEvents()
	return p
}

func newProductService(productRepo *MockProductRepository, specialtyRepo *MockSpecialtyRepository) (*ProductService, *testutil.RecordingPublisher) {
	service := NewProductService(productRepo, specialtyRepo, catalog.NewPriceCalculator(catalog.DefaultPriceTable()), nil)
	publisher := testutil.NewRecordingPublisher()
	service.SetEventPublisher(publisher)
	return service, publisher
}

func TestProductService_Create_AutomaticPricing(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, publisher := newProductService(productRepo, specialtyRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)

	req := CreateProductRequest{
		Code:         "web-001",
		Name:         "Landing page",
		Category:     "Web",
		Area:         "Marketing",
		DeliveryDays: 10,
		Tags:         []string{"Web", "web", " seo "},
		Tasks: []TaskInput{
			{Name: "Build", SpecialtyID: &specialty.ID, Seniority: "mid", Hours: dec("10")},
		},
		Questions: []QuestionInput{
			{Text: "Do you have a domain?", Type: "boolean", Required: true},
		},
	}

	productRepo.On("ExistsByCode", ctx, tenantID, req.Code).Return(false, nil)
	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{specialty.ID}).Return([]catalog.Specialty{*specialty}, nil)
	productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "WEB-001", result.Code)
	assert.Equal(t, "draft", result.Status)
	assert.Equal(t, "automatic", result.PricingMode)
	assert.Equal(t, []string{"web", "seo"}, result.Tags)
	assert.Equal(t, "Marketing", result.Area)
	// 10h × 100 = 1000 base, +10% +15% +8%
	assert.True(t, result.Price.Equal(dec("1330")), "price %s", result.Price)
	assert.True(t, result.TotalHours.Equal(dec("10")))
	require.Len(t, result.Tasks, 1)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, []string{}, result.Questions[0].Options)
	assert.Equal(t, []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductPriceChanged,
	}, publisher.Types())
	productRepo.AssertExpectations(t)
	specialtyRepo.AssertExpectations(t)
}

func TestProductService_Create_ManualPricing(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)

	ctx := context.Background()
	tenantID := uuid.New()
	price := dec("499.999")
	req := CreateProductRequest{
		Code:        "CONS-1",
		Name:        "Consulting",
		Category:    "Advisory",
		PricingMode: "manual",
		ManualPrice: &price,
	}

	productRepo.On("ExistsByCode", ctx, tenantID, req.Code).Return(false, nil)
	productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "manual", result.PricingMode)
	assert.True(t, result.Price.Equal(dec("500")))
	specialtyRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Create_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateProductRequest
		wantCode string
	}{
		{"missing name", CreateProductRequest{Code: "P-1", Category: "Web"}, "INVALID_NAME"},
		{"missing category", CreateProductRequest{Code: "P-1", Name: "Site"}, "INVALID_CATEGORY"},
		{"negative hours", CreateProductRequest{Code: "P-1", Name: "Site", Category: "Web",
			Tasks: []TaskInput{{Name: "Build", Hours: dec("-1")}}}, "INVALID_HOURS"},
		{"bad seniority", CreateProductRequest{Code: "P-1", Name: "Site", Category: "Web",
			Tasks: []TaskInput{{Name: "Build", Seniority: "principal"}}}, "INVALID_SENIORITY"},
		{"select without options", CreateProductRequest{Code: "P-1", Name: "Site", Category: "Web",
			Questions: []QuestionInput{{Text: "Color?", Type: "select", Options: []string{"red"}}}}, "INVALID_QUESTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo := new(MockProductRepository)
			specialtyRepo := new(MockSpecialtyRepository)
			service, _ := newProductService(productRepo, specialtyRepo)
			ctx := context.Background()
			tenantID := uuid.New()

			productRepo.On("ExistsByCode", ctx, tenantID, "P-1").Return(false, nil)

			result, err := service.Create(ctx, tenantID, tt.req)

			assert.Nil(t, result)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
			productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()

	productRepo.On("ExistsByCode", ctx, tenantID, "P-1").Return(true, nil)

	_, err := service.Create(ctx, tenantID, CreateProductRequest{Code: "P-1", Name: "Site", Category: "Web"})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestProductService_Create_UnknownSpecialty(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	missing := uuid.New()

	productRepo.On("ExistsByCode", ctx, tenantID, "P-1").Return(false, nil)
	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{missing}).Return([]catalog.Specialty{}, nil)

	_, err := service.Create(ctx, tenantID, CreateProductRequest{
		Code: "P-1", Name: "Site", Category: "Web",
		Tasks: []TaskInput{{Name: "Build", SpecialtyID: &missing, Hours: dec("3")}},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SPECIALTY", domainErr.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()

	productRepo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, tenantID, id)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_List_BuildsQueryFilter(t *testing.T) {
	productRepo := new(MockProductRepository)
	service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
	ctx := context.Background()
	tenantID := uuid.New()

	filter := ProductListFilter{Search: "site", Category: "Web", Status: "active", Sort: "price_desc", Page: 2, PageSize: 5}
	expected := catalog.ProductQuery{
		Search:   "site",
		Category: "Web",
		Status:   catalog.ProductStatusActive,
		Sort:     catalog.ProductSortPriceDesc,
	}.Filter(2, 5)

	products := []catalog.Product{*newTestProduct(t, tenantID, "P-1", nil, "1")}
	productRepo.On("FindAllForTenant", ctx, tenantID, expected).Return(products, nil)
	productRepo.On("CountForTenant", ctx, tenantID, expected).Return(int64(6), nil)

	result, total, err := service.List(ctx, tenantID, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, result, 1)
	assert.Equal(t, "P-1", result[0].Code)
	assert.Equal(t, 1, result[0].TaskCount)
	productRepo.AssertExpectations(t)
}

func TestProductService_Facets(t *testing.T) {
	productRepo := new(MockProductRepository)
	service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
	ctx := context.Background()
	tenantID := uuid.New()

	productRepo.On("Facets", ctx, tenantID).Return(&catalog.ProductFacets{Categories: []string{"Web"}}, nil)

	facets, err := service.Facets(ctx, tenantID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Web"}, facets.Categories)
	assert.Equal(t, []string{}, facets.Areas)
}

func TestProductService_Update_ReplacesTasksAndReprices(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, publisher := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	product := newTestProduct(t, tenantID, "P-1", nil, "1")

	name := "Corporate site"
	tasks := []TaskInput{{
		Name:        "Build",
		SpecialtyID: &specialty.ID,
		Seniority:   "senior",
		Steps: []TaskStepInput{
			{Name: "Layout", Hours: dec("2")},
			{Name: "Review", Seniority: "junior", Hours: dec("1")},
		},
	}}

	productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{specialty.ID}).Return([]catalog.Specialty{*specialty}, nil)
	productRepo.On("Save", ctx, product).Return(nil)

	result, err := service.Update(ctx, tenantID, product.ID, UpdateProductRequest{Name: &name, Tasks: &tasks})

	require.NoError(t, err)
	assert.Equal(t, "Corporate site", result.Name)
	// steps inherit specialty: 2h senior (150) + 1h junior (80) = 380 base
	assert.True(t, result.Price.Equal(dec("505.4")), "price %s", result.Price)
	require.Len(t, result.Tasks[0].Steps, 2)
	assert.Equal(t, "senior", result.Tasks[0].Steps[0].Seniority)
	assert.Contains(t, publisher.Types(), catalog.EventTypeProductPriceChanged)
}

func TestProductService_Update_SwitchToManual(t *testing.T) {
	productRepo := new(MockProductRepository)
	service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
	ctx := context.Background()
	tenantID := uuid.New()
	product := newTestProduct(t, tenantID, "P-1", nil, "1")
	mode := "manual"
	price := dec("250")

	productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	productRepo.On("Save", ctx, product).Return(nil)

	result, err := service.Update(ctx, tenantID, product.ID, UpdateProductRequest{PricingMode: &mode, ManualPrice: &price})

	require.NoError(t, err)
	assert.Equal(t, "manual", result.PricingMode)
	assert.True(t, result.Price.Equal(price))
	assert.True(t, result.ManualPrice.Equal(price))
}

func TestProductService_Activate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("without price", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
		product := newTestProduct(t, tenantID, "P-1", nil, "1")
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		_, err := service.Activate(ctx, tenantID, product.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CANNOT_ACTIVATE", domainErr.Code)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("priced product", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service, publisher := newProductService(productRepo, new(MockSpecialtyRepository))
		product := newTestProduct(t, tenantID, "P-1", nil, "1")
		price := dec("100")
		require.NoError(t, product.UsePricing(catalog.PricingModeManual, &price))
		product.Reprice(catalog.NewPriceCalculator(catalog.DefaultPriceTable()), catalog.SpecialtyRates{})
		product.ClearDomainEvents()

		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		result, err := service.Activate(ctx, tenantID, product.ID)

		require.NoError(t, err)
		assert.Equal(t, "active", result.Status)
		assert.Equal(t, []string{catalog.EventTypeProductStatusChanged}, publisher.Types())
	})
}

func TestProductService_Duplicate(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	source := newTestProduct(t, tenantID, "P-1", &specialty.ID, "4")

	productRepo.On("FindByIDForTenant", ctx, tenantID, source.ID).Return(source, nil)
	productRepo.On("ExistsByCode", ctx, tenantID, "P-2").Return(false, nil)
	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{specialty.ID}).Return([]catalog.Specialty{*specialty}, nil)
	productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Duplicate(ctx, tenantID, source.ID, DuplicateProductRequest{Code: "P-2"})

	require.NoError(t, err)
	assert.Equal(t, "P-2", result.Code)
	assert.Equal(t, "Landing page (copy)", result.Name)
	assert.NotEqual(t, source.ID, result.ID)
	assert.NotEqual(t, source.Tasks[0].ID, result.Tasks[0].ID)
	assert.True(t, result.Price.Equal(dec("532")))
}

func TestProductService_Delete(t *testing.T) {
	productRepo := new(MockProductRepository)
	service, publisher := newProductService(productRepo, new(MockSpecialtyRepository))
	ctx := context.Background()
	tenantID := uuid.New()
	product := newTestProduct(t, tenantID, "P-1", nil, "1")

	productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	productRepo.On("DeleteForTenant", ctx, tenantID, product.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, tenantID, product.ID))
	assert.Equal(t, []string{catalog.EventTypeProductDeleted}, publisher.Types())
}

func TestProductService_EnhanceDescription(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("preview does not save", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
		product := newTestProduct(t, tenantID, "P-1", nil, "6")
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		result, err := service.EnhanceDescription(ctx, tenantID, product.ID, false)

		require.NoError(t, err)
		assert.False(t, result.Applied)
		assert.Contains(t, result.Description, "- Build (6h)")
		assert.Empty(t, product.Description)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("apply saves", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
		product := newTestProduct(t, tenantID, "P-1", nil, "6")
		productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		result, err := service.EnhanceDescription(ctx, tenantID, product.ID, true)

		require.NoError(t, err)
		assert.True(t, result.Applied)
		assert.Equal(t, result.Description, product.Description)
	})

	t.Run("cancelled context", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		service, _ := newProductService(productRepo, new(MockSpecialtyRepository))
		product := newTestProduct(t, tenantID, "P-1", nil, "6")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		productRepo.On("FindByIDForTenant", cancelled, tenantID, product.ID).Return(product, nil)

		_, err := service.EnhanceDescription(cancelled, tenantID, product.ID, true)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProductService_Quote(t *testing.T) {
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(new(MockProductRepository), specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	unknown := uuid.New()

	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{specialty.ID, unknown}).
		Return([]catalog.Specialty{*specialty}, nil)

	result, err := service.Quote(ctx, tenantID, QuoteRequest{Tasks: []TaskInput{
		{Name: "Known", SpecialtyID: &specialty.ID, Seniority: "junior", Hours: dec("5")},
		{Name: "Unknown", SpecialtyID: &unknown, Hours: dec("5")},
		{Name: "No specialty", Hours: dec("5")},
	}})

	require.NoError(t, err)
	require.Len(t, result.Tasks, 3)
	assert.True(t, result.Tasks[0].Value.Equal(dec("400")))
	assert.True(t, result.Tasks[1].Value.IsZero())
	assert.True(t, result.Tasks[2].Value.IsZero())
	assert.True(t, result.Breakdown.Hours.Equal(dec("15")))
	assert.True(t, result.Breakdown.BaseCost.Equal(dec("400")))
	assert.True(t, result.Price.Equal(dec("532")))
	assert.True(t, result.Surcharges.TaxPct.Equal(dec("15")))
}

func TestProductService_Pricing(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	product := newTestProduct(t, tenantID, "P-1", &specialty.ID, "2")

	productRepo.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	specialtyRepo.On("FindByIDs", ctx, tenantID, []uuid.UUID{specialty.ID}).Return([]catalog.Specialty{*specialty}, nil)

	result, err := service.Pricing(ctx, tenantID, product.ID)

	require.NoError(t, err)
	assert.Equal(t, product.ID, result.ProductID)
	assert.Equal(t, "automatic", result.PricingMode)
	assert.True(t, result.Breakdown.Total.Equal(dec("266")))
	// stored price is reported as is
	assert.True(t, result.Price.IsZero())
}

func TestProductService_RepriceBySpecialty(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, publisher := newProductService(productRepo, specialtyRepo)
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	calc := catalog.NewPriceCalculator(catalog.DefaultPriceTable())

	automatic := newTestProduct(t, tenantID, "AUTO", &specialty.ID, "10")
	automatic.Reprice(calc, catalog.NewSpecialtyRates([]catalog.Specialty{*specialty}))
	automatic.ClearDomainEvents()

	manual := newTestProduct(t, tenantID, "MAN", &specialty.ID, "10")
	price := dec("900")
	require.NoError(t, manual.UsePricing(catalog.PricingModeManual, &price))
	manual.Reprice(calc, catalog.SpecialtyRates{})
	manual.ClearDomainEvents()

	raised := *specialty
	require.NoError(t, raised.SetRates(dec("90"), dec("120"), dec("160")))

	productRepo.On("FindBySpecialty", mock.Anything, tenantID, specialty.ID).
		Return([]catalog.Product{*automatic, *manual}, nil)
	specialtyRepo.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{specialty.ID}).
		Return([]catalog.Specialty{raised}, nil)
	productRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.Code == "AUTO" && p.Price.Equal(dec("1596"))
	})).Return(nil).Once()

	changed, err := service.RepriceBySpecialty(ctx, tenantID, specialty.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{catalog.EventTypeProductPriceChanged}, publisher.Types())
	productRepo.AssertExpectations(t)
}

func TestProductService_RepriceBySpecialty_SaveError(t *testing.T) {
	productRepo := new(MockProductRepository)
	specialtyRepo := new(MockSpecialtyRepository)
	service, _ := newProductService(productRepo, specialtyRepo)
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	product := newTestProduct(t, tenantID, "AUTO", &specialty.ID, "1")

	productRepo.On("FindBySpecialty", mock.Anything, tenantID, specialty.ID).Return([]catalog.Product{*product}, nil)
	specialtyRepo.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{specialty.ID}).Return([]catalog.Specialty{*specialty}, nil)
	productRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	changed, err := service.RepriceBySpecialty(context.Background(), tenantID, specialty.ID)

	assert.EqualError(t, err, "db down")
	assert.Equal(t, 0, changed)
}
