package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSpecialtyService() (*SpecialtyService, *MockSpecialtyRepository, *MockProductRepository, *testutil.RecordingPublisher) {
	specialtyRepo := new(MockSpecialtyRepository)
	productRepo := new(MockProductRepository)
	service := NewSpecialtyService(specialtyRepo, productRepo)
	publisher := testutil.NewRecordingPublisher()
	service.SetEventPublisher(publisher)
	return service, specialtyRepo, productRepo, publisher
}

func TestSpecialtyService_Create(t *testing.T) {
	service, specialtyRepo, _, publisher := newSpecialtyService()
	ctx := context.Background()
	tenantID := uuid.New()

	req := CreateSpecialtyRequest{
		Code:        "ux",
		Name:        "UX Design",
		Description: "Research and prototyping",
		JuniorRate:  dec("60"),
		MidRate:     dec("90"),
		SeniorRate:  dec("130"),
	}
	specialtyRepo.On("ExistsByCode", ctx, tenantID, "ux").Return(false, nil)
	specialtyRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Specialty")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "UX", result.Code)
	assert.Equal(t, "Research and prototyping", result.Description)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, []string{catalog.EventTypeSpecialtyCreated}, publisher.Types())
}

func TestSpecialtyService_Create_Errors(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("duplicate code", func(t *testing.T) {
		service, specialtyRepo, _, _ := newSpecialtyService()
		specialtyRepo.On("ExistsByCode", ctx, tenantID, "DEV").Return(true, nil)

		_, err := service.Create(ctx, tenantID, CreateSpecialtyRequest{Code: "DEV", Name: "Dev"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("decreasing rates", func(t *testing.T) {
		service, specialtyRepo, _, _ := newSpecialtyService()
		specialtyRepo.On("ExistsByCode", ctx, tenantID, "DEV").Return(false, nil)

		_, err := service.Create(ctx, tenantID, CreateSpecialtyRequest{
			Code: "DEV", Name: "Dev", JuniorRate: dec("100"), MidRate: dec("90"), SeniorRate: dec("120"),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RATE", domainErr.Code)
		specialtyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSpecialtyService_List(t *testing.T) {
	service, specialtyRepo, _, _ := newSpecialtyService()
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)

	expected := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   "dev",
		Filters:  map[string]interface{}{"status": "active"},
	}
	specialtyRepo.On("FindAllForTenant", ctx, tenantID, expected).Return([]catalog.Specialty{*specialty}, nil)
	specialtyRepo.On("CountForTenant", ctx, tenantID, expected).Return(int64(1), nil)

	result, total, err := service.List(ctx, tenantID, SpecialtyListFilter{Search: "dev", Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.Equal(t, "DEV", result[0].Code)
}

func TestSpecialtyService_Update(t *testing.T) {
	service, specialtyRepo, _, _ := newSpecialtyService()
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	description := "Backend and frontend"

	specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
	specialtyRepo.On("Save", ctx, specialty).Return(nil)

	result, err := service.Update(ctx, tenantID, specialty.ID, UpdateSpecialtyRequest{Description: &description})

	require.NoError(t, err)
	assert.Equal(t, "Development", result.Name)
	assert.Equal(t, description, result.Description)
}

func TestSpecialtyService_SetRates(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("publishes rate change", func(t *testing.T) {
		service, specialtyRepo, _, publisher := newSpecialtyService()
		specialty := newTestSpecialty(t, tenantID)
		specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
		specialtyRepo.On("Save", ctx, specialty).Return(nil)

		result, err := service.SetRates(ctx, tenantID, specialty.ID, SetRatesRequest{
			JuniorRate: dec("85"), MidRate: dec("110"), SeniorRate: dec("160"),
		})

		require.NoError(t, err)
		assert.True(t, result.MidRate.Equal(dec("110")))
		require.Len(t, publisher.Events(), 1)
		event, ok := publisher.Events()[0].(*catalog.SpecialtyRatesChangedEvent)
		require.True(t, ok)
		assert.Equal(t, specialty.ID, event.SpecialtyID)
	})

	t.Run("unchanged rates publish nothing", func(t *testing.T) {
		service, specialtyRepo, _, publisher := newSpecialtyService()
		specialty := newTestSpecialty(t, tenantID)
		specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
		specialtyRepo.On("Save", ctx, specialty).Return(nil)

		_, err := service.SetRates(ctx, tenantID, specialty.ID, SetRatesRequest{
			JuniorRate: dec("80"), MidRate: dec("100"), SeniorRate: dec("150"),
		})

		require.NoError(t, err)
		assert.Empty(t, publisher.Events())
	})
}

func TestSpecialtyService_Deactivate(t *testing.T) {
	service, specialtyRepo, _, _ := newSpecialtyService()
	ctx := context.Background()
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)

	specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
	specialtyRepo.On("Save", ctx, specialty).Return(nil)

	result, err := service.Deactivate(ctx, tenantID, specialty.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", result.Status)

	_, err = service.Deactivate(ctx, tenantID, specialty.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)
}

func TestSpecialtyService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("in use", func(t *testing.T) {
		service, specialtyRepo, productRepo, _ := newSpecialtyService()
		specialty := newTestSpecialty(t, tenantID)
		product := newTestProduct(t, tenantID, "P-1", &specialty.ID, "1")
		specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
		productRepo.On("FindBySpecialty", ctx, tenantID, specialty.ID).Return([]catalog.Product{*product}, nil)

		err := service.Delete(ctx, tenantID, specialty.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SPECIALTY_IN_USE", domainErr.Code)
		specialtyRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unused", func(t *testing.T) {
		service, specialtyRepo, productRepo, _ := newSpecialtyService()
		specialty := newTestSpecialty(t, tenantID)
		specialtyRepo.On("FindByIDForTenant", ctx, tenantID, specialty.ID).Return(specialty, nil)
		productRepo.On("FindBySpecialty", ctx, tenantID, specialty.ID).Return([]catalog.Product{}, nil)
		specialtyRepo.On("DeleteForTenant", ctx, tenantID, specialty.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, tenantID, specialty.ID))
		specialtyRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		service, specialtyRepo, _, _ := newSpecialtyService()
		id := uuid.New()
		specialtyRepo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, service.Delete(ctx, tenantID, id), shared.ErrNotFound)
	})
}

type stubRepricer struct {
	tenantID, specialtyID uuid.UUID
	changed               int
	err                   error
}

func (s *stubRepricer) RepriceBySpecialty(_ context.Context, tenantID, specialtyID uuid.UUID) (int, error) {
	s.tenantID, s.specialtyID = tenantID, specialtyID
	return s.changed, s.err
}

func TestSpecialtyRatesChangedHandler(t *testing.T) {
	tenantID := uuid.New()
	specialty := newTestSpecialty(t, tenantID)
	require.NoError(t, specialty.SetRates(dec("1"), dec("2"), dec("3")))
	event := specialty.GetDomainEvents()[0]

	t.Run("reprices", func(t *testing.T) {
		repricer := &stubRepricer{changed: 2}
		handler := NewSpecialtyRatesChangedHandler(repricer, zap.NewNop())

		assert.Equal(t, []string{catalog.EventTypeSpecialtyRatesChanged}, handler.EventTypes())
		require.NoError(t, handler.Handle(context.Background(), event))
		assert.Equal(t, tenantID, repricer.tenantID)
		assert.Equal(t, specialty.ID, repricer.specialtyID)
	})

	t.Run("propagates failure", func(t *testing.T) {
		handler := NewSpecialtyRatesChangedHandler(&stubRepricer{err: errors.New("boom")}, nil)
		assert.EqualError(t, handler.Handle(context.Background(), event), "boom")
	})

	t.Run("wrong event", func(t *testing.T) {
		handler := NewSpecialtyRatesChangedHandler(&stubRepricer{}, nil)
		created := catalog.NewSpecialtyCreatedEvent(specialty)
		assert.Error(t, handler.Handle(context.Background(), created))
	})
}
