package project

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service     *ProjectService
	projectRepo *MockProjectRepository
	companyRepo *MockCompanyRepository
	productRepo *MockProductRepository
	publisher   *testutil.RecordingPublisher
	tenantID    uuid.UUID
	company     *partner.Company
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		projectRepo: new(MockProjectRepository),
		companyRepo: new(MockCompanyRepository),
		productRepo: new(MockProductRepository),
		publisher:   testutil.NewRecordingPublisher(),
		tenantID:    uuid.New(),
	}
	f.service = NewProjectService(f.projectRepo, f.companyRepo, f.productRepo)
	f.service.SetEventPublisher(f.publisher)
	f.service.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	company, err := partner.NewCompany(f.tenantID, "Acme", "12345678000190", partner.CompanyTypeClient)
	require.NoError(t, err)
	f.company = company
	return f
}

func (f *fixture) newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.NewProject(f.tenantID, "PRJ-1", "Website", f.company.ID)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newPricedProduct(t *testing.T, tenantID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, "SITE", "Institutional site", "web")
	require.NoError(t, err)

	design, err := catalog.NewTask("Design", nil, catalog.SeniorityMid, decimal.NewFromInt(8))
	require.NoError(t, err)
	build, err := catalog.NewTask("Build", nil, catalog.SeniorityMid, decimal.Zero)
	require.NoError(t, err)
	_, err = build.AddStep("Frontend", nil, "", decimal.NewFromInt(12))
	require.NoError(t, err)
	_, err = build.AddStep("Backend", nil, "", decimal.NewFromInt(6))
	require.NoError(t, err)
	require.NoError(t, product.ReplaceTasks([]catalog.Task{*design, *build}))

	manual := decimal.NewFromInt(2500)
	require.NoError(t, product.UsePricing(catalog.PricingModeManual, &manual))
	product.Reprice(catalog.NewPriceCalculator(catalog.DefaultPriceTable()), catalog.SpecialtyRates{})
	product.ClearDomainEvents()
	return product
}

func TestProjectService_Create_FromProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := newPricedProduct(t, f.tenantID)
	due := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "prj-9").Return(false, nil)
	f.companyRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.company.ID).Return(f.company, nil)
	f.productRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, product.ID).Return(product, nil)
	f.projectRepo.On("Save", mock.Anything, mock.AnythingOfType("*project.Project")).Return(nil)

	result, err := f.service.Create(ctx, f.tenantID, CreateProjectRequest{
		Code:      "prj-9",
		Name:      "Acme site",
		CompanyID: f.company.ID,
		ProductID: &product.ID,
		DueDate:   &due,
	})

	require.NoError(t, err)
	assert.Equal(t, "PRJ-9", result.Code)
	assert.Equal(t, "planning", result.Status)
	require.NotNil(t, result.ProductID)
	assert.Equal(t, product.ID, *result.ProductID)
	assert.True(t, result.Budget.Equal(decimal.NewFromInt(2500)))
	require.Len(t, result.Tasks, 2)
	assert.Equal(t, "Design", result.Tasks[0].Title)
	assert.True(t, result.Tasks[1].EstimatedHours.Equal(decimal.NewFromInt(18)))
	assert.True(t, result.EstimatedHours.Equal(decimal.NewFromInt(26)))
	assert.Equal(t, 0, result.Progress)
	assert.Equal(t, []string{project.EventTypeProjectCreated}, f.publisher.Types())
}

func TestProjectService_Create_ExplicitBudgetWins(t *testing.T) {
	f := newFixture(t)
	product := newPricedProduct(t, f.tenantID)
	budget := decimal.RequireFromString("1999.999")

	f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "P").Return(false, nil)
	f.companyRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.company.ID).Return(f.company, nil)
	f.productRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, product.ID).Return(product, nil)
	f.projectRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Create(context.Background(), f.tenantID, CreateProjectRequest{
		Code: "P", Name: "Site", CompanyID: f.company.ID, ProductID: &product.ID, Budget: &budget,
	})

	require.NoError(t, err)
	assert.True(t, result.Budget.Equal(decimal.NewFromInt(2000)))
}

func TestProjectService_Create_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate code", func(t *testing.T) {
		f := newFixture(t)
		f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "P").Return(true, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateProjectRequest{Code: "P", Name: "X", CompanyID: f.company.ID})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newFixture(t)
		missing := uuid.New()
		f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "P").Return(false, nil)
		f.companyRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, f.tenantID, CreateProjectRequest{Code: "P", Name: "X", CompanyID: missing})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPANY", domainErr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		missing := uuid.New()
		f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "P").Return(false, nil)
		f.companyRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.company.ID).Return(f.company, nil)
		f.productRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, f.tenantID, CreateProjectRequest{Code: "P", Name: "X", CompanyID: f.company.ID, ProductID: &missing})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
		f.projectRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("due before start", func(t *testing.T) {
		f := newFixture(t)
		start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		due := start.AddDate(0, 0, -1)
		f.projectRepo.On("ExistsByCode", mock.Anything, f.tenantID, "P").Return(false, nil)
		f.companyRepo.On("FindByIDForTenant", mock.Anything, f.tenantID, f.company.ID).Return(f.company, nil)

		_, err := f.service.Create(ctx, f.tenantID, CreateProjectRequest{
			Code: "P", Name: "X", CompanyID: f.company.ID, StartDate: &start, DueDate: &due,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SCHEDULE", domainErr.Code)
	})
}

func TestProjectService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t)

	f.projectRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.projectRepo.On("Save", ctx, p).Return(nil)

	result, err := f.service.Start(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	assert.NotNil(t, result.StartDate)

	result, err = f.service.Hold(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "on_hold", result.Status)

	_, err = f.service.Hold(ctx, f.tenantID, p.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	result, err = f.service.Resume(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)

	result, err = f.service.Complete(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.NotNil(t, result.CompletedAt)

	_, err = f.service.AddTask(ctx, f.tenantID, p.ID, AddTaskRequest{Title: "Late"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	assert.Equal(t, []string{
		project.EventTypeProjectStatusChanged,
		project.EventTypeProjectStatusChanged,
		project.EventTypeProjectStatusChanged,
		project.EventTypeProjectStatusChanged,
	}, f.publisher.Types())
}

func TestProjectService_Tasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t)

	f.projectRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.projectRepo.On("Save", ctx, p).Return(nil)

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := f.service.AddTask(ctx, f.tenantID, p.ID, AddTaskRequest{Title: title, EstimatedHours: decimal.NewFromInt(2)})
		require.NoError(t, err)
	}

	result, err := f.service.SetTaskStatus(ctx, f.tenantID, p.ID, p.Tasks[0].ID, SetTaskStatusRequest{Status: "done"})
	require.NoError(t, err)
	assert.Equal(t, 33, result.Progress)
	assert.True(t, result.EstimatedHours.Equal(decimal.NewFromInt(6)))

	_, err = f.service.SetTaskStatus(ctx, f.tenantID, p.ID, uuid.New(), SetTaskStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	result, err = f.service.RemoveTask(ctx, f.tenantID, p.ID, p.Tasks[1].ID)
	require.NoError(t, err)
	assert.Len(t, result.Tasks, 2)
	assert.Equal(t, 50, result.Progress)
}

func TestProjectService_Update_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	f.projectRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.projectRepo.On("Save", ctx, p).Return(nil)

	result, err := f.service.Update(ctx, f.tenantID, p.ID, UpdateProjectRequest{DueDate: &due})

	require.NoError(t, err)
	assert.Equal(t, "Website", result.Name)
	assert.True(t, result.Overdue)
}

func TestProjectService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.newProject(t)

	expected := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderDir: "desc",
		Filters:  map[string]interface{}{"status": "planning", "company_id": f.company.ID.String()},
	}
	f.projectRepo.On("FindAllForTenant", ctx, f.tenantID, expected).Return([]project.Project{*p}, nil)
	f.projectRepo.On("CountForTenant", ctx, f.tenantID, expected).Return(int64(1), nil)

	result, total, err := f.service.List(ctx, f.tenantID, ProjectListFilter{Status: "planning", CompanyID: f.company.ID.String()})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.Equal(t, "PRJ-1", result[0].Code)
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("planning", func(t *testing.T) {
		f := newFixture(t)
		p := f.newProject(t)
		f.projectRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
		f.projectRepo.On("DeleteForTenant", ctx, f.tenantID, p.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, f.tenantID, p.ID))
	})

	t.Run("active", func(t *testing.T) {
		f := newFixture(t)
		p := f.newProject(t)
		require.NoError(t, p.Start())
		f.projectRepo.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)

		err := f.service.Delete(ctx, f.tenantID, p.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	})
}
