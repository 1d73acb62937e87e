package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
	"github.com/servicehub/admin/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogRouter(env *testEnv) *gin.Engine {
	r := env.router()
	sh := NewSpecialtyHandler(env.specialties)
	ph := NewProductHandler(env.products)

	specialties := r.Group("/catalog/specialties")
	specialties.POST("", sh.Create)
	specialties.GET("", sh.List)
	specialties.GET("/:id", sh.GetByID)
	specialties.PUT("/:id", sh.Update)
	specialties.PUT("/:id/rates", sh.SetRates)
	specialties.POST("/:id/activate", sh.Activate)
	specialties.POST("/:id/deactivate", sh.Deactivate)
	specialties.DELETE("/:id", sh.Delete)

	products := r.Group("/catalog/products")
	products.POST("", ph.Create)
	products.GET("", ph.List)
	products.GET("/facets", ph.Facets)
	products.POST("/quote", ph.Quote)
	products.GET("/code/:code", ph.GetByCode)
	products.GET("/:id", ph.GetByID)
	products.PUT("/:id", ph.Update)
	products.DELETE("/:id", ph.Delete)
	products.POST("/:id/activate", ph.Activate)
	products.POST("/:id/deactivate", ph.Deactivate)
	products.POST("/:id/duplicate", ph.Duplicate)
	products.POST("/:id/enhance-description", ph.EnhanceDescription)
	products.GET("/:id/pricing", ph.Pricing)
	return r
}

func createSpecialty(t *testing.T, r *gin.Engine, code string) catalogapp.SpecialtyResponse {
	t.Helper()
	w := perform(r, http.MethodPost, "/catalog/specialties", map[string]any{
		"code":        code,
		"name":        "Development",
		"junior_rate": "80",
		"mid_rate":    "100",
		"senior_rate": "150",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return dataAs[catalogapp.SpecialtyResponse](t, w)
}

func createProduct(t *testing.T, r *gin.Engine, code string, specialtyID uuid.UUID) catalogapp.ProductResponse {
	t.Helper()
	w := perform(r, http.MethodPost, "/catalog/products", map[string]any{
		"code":     code,
		"name":     "Landing page",
		"category": "Web",
		"area":     "Marketing",
		"tasks": []map[string]any{
			{"name": "Build", "specialty_id": specialtyID, "seniority": "mid", "hours": "10"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return dataAs[catalogapp.ProductResponse](t, w)
}

func TestSpecialtyHandler_Create(t *testing.T) {
	t.Run("creates with normalized code", func(t *testing.T) {
		env := newTestEnv(t)
		r := setupCatalogRouter(env)

		s := createSpecialty(t, r, "dev")

		assert.Equal(t, "DEV", s.Code)
		assert.Equal(t, "active", s.Status)
		assert.True(t, s.MidRate.Equal(decimal.NewFromInt(100)))
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		r := setupCatalogRouter(env)
		createSpecialty(t, r, "DEV")

		w := perform(r, http.MethodPost, "/catalog/specialties", map[string]any{
			"code": "dev", "name": "Again", "junior_rate": "1", "mid_rate": "2", "senior_rate": "3",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, errorCode(t, w))
	})

	t.Run("negative rate fails validation", func(t *testing.T) {
		env := newTestEnv(t)
		r := setupCatalogRouter(env)

		w := perform(r, http.MethodPost, "/catalog/specialties", map[string]any{
			"code": "DEV", "name": "Development", "junior_rate": "-1", "mid_rate": "2", "senior_rate": "3",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "junior_rate", resp.Error.Details[0].Field)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		env := newTestEnv(t)
		r := setupCatalogRouter(env)

		w := perform(r, http.MethodPost, "/catalog/specialties", `{"code":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, errorCode(t, w))
	})
}

func TestSpecialtyHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	r := setupCatalogRouter(env)
	s := createSpecialty(t, r, "DEV")
	path := "/catalog/specialties/" + s.ID.String()

	w := perform(r, http.MethodPost, path+"/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "inactive", dataAs[catalogapp.SpecialtyResponse](t, w).Status)

	w = perform(r, http.MethodGet, "/catalog/specialties?status=inactive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decodeEnvelope(t, w)
	require.NotNil(t, listed.Meta)
	assert.Equal(t, int64(1), listed.Meta.Total)
	assert.Equal(t, 1, listed.Meta.Page)
	assert.Equal(t, 20, listed.Meta.PageSize)

	w = perform(r, http.MethodPost, path+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPut, path+"/rates", map[string]any{
		"junior_rate": "90", "mid_rate": "120", "senior_rate": "180",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, dataAs[catalogapp.SpecialtyResponse](t, w).SeniorRate.Equal(decimal.NewFromInt(180)))

	w = perform(r, http.MethodPut, path, map[string]any{"name": "Software development"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Software development", dataAs[catalogapp.SpecialtyResponse](t, w).Name)

	w = perform(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestSpecialtyHandler_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	r := setupCatalogRouter(env)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/catalog/specialties/not-a-uuid"},
		{http.MethodPost, "/catalog/specialties/42/activate"},
		{http.MethodDelete, "/catalog/specialties/xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := perform(r, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
		})
	}
}

func TestProductHandler_CreateAndRead(t *testing.T) {
	env := newTestEnv(t)
	r := setupCatalogRouter(env)
	s := createSpecialty(t, r, "DEV")

	p := createProduct(t, r, "web-001", s.ID)
	assert.Equal(t, "WEB-001", p.Code)
	assert.Equal(t, "draft", p.Status)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(1330)), "price %s", p.Price)

	t.Run("by id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/catalog/products/"+p.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := dataAs[catalogapp.ProductResponse](t, w)
		require.Len(t, got.Tasks, 1)
		assert.Equal(t, "Build", got.Tasks[0].Name)
	})

	t.Run("by code", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/catalog/products/code/web-001", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, p.ID, dataAs[catalogapp.ProductResponse](t, w).ID)
	})

	t.Run("list and facets", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/catalog/products?category=Web&page_size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := dataAs[[]catalogapp.ProductListResponse](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].TaskCount)

		w = perform(r, http.MethodGet, "/catalog/products/facets", nil)
		require.Equal(t, http.StatusOK, w.Code)
		facets := dataAs[catalogapp.FacetsResponse](t, w)
		assert.Equal(t, []string{"Web"}, facets.Categories)
		assert.Equal(t, []string{"Marketing"}, facets.Areas)
	})

	t.Run("invalid sort is rejected", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/catalog/products?sort=random", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("pricing breakdown", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/catalog/products/"+p.ID.String()+"/pricing", nil)
		require.Equal(t, http.StatusOK, w.Code)
		pricing := dataAs[catalogapp.PricingResponse](t, w)
		assert.True(t, pricing.Price.Equal(p.Price))
		require.Len(t, pricing.Tasks, 1)
		assert.True(t, pricing.Tasks[0].Value.Equal(decimal.NewFromInt(1000)))
	})
}

func TestProductHandler_Actions(t *testing.T) {
	env := newTestEnv(t)
	r := setupCatalogRouter(env)
	s := createSpecialty(t, r, "DEV")
	p := createProduct(t, r, "WEB-001", s.ID)
	path := "/catalog/products/" + p.ID.String()

	w := perform(r, http.MethodPost, path+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "active", dataAs[catalogapp.ProductResponse](t, w).Status)

	w = perform(r, http.MethodPost, path+"/duplicate", map[string]any{"code": "WEB-002"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dup := dataAs[catalogapp.ProductResponse](t, w)
	assert.Equal(t, "WEB-002", dup.Code)
	assert.Equal(t, "draft", dup.Status)
	assert.NotEqual(t, p.ID, dup.ID)

	w = perform(r, http.MethodPost, path+"/duplicate", map[string]any{"code": "WEB-002"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(r, http.MethodPost, path+"/enhance-description", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := dataAs[catalogapp.EnhanceDescriptionResponse](t, w)
	assert.False(t, preview.Applied)
	assert.NotEmpty(t, preview.Description)

	w = perform(r, http.MethodPost, path+"/enhance-description?apply=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, path+"/enhance-description?apply=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, dataAs[catalogapp.EnhanceDescriptionResponse](t, w).Applied)

	w = perform(r, http.MethodPut, path, map[string]any{"pricing_mode": "manual", "manual_price": "999.90"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, dataAs[catalogapp.ProductResponse](t, w).Price.Equal(decimal.RequireFromString("999.90")))

	w = perform(r, http.MethodDelete, "/catalog/products/"+dup.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProductHandler_Quote(t *testing.T) {
	env := newTestEnv(t)
	r := setupCatalogRouter(env)
	s := createSpecialty(t, r, "DEV")

	t.Run("prices a task list", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/catalog/products/quote", map[string]any{
			"tasks": []map[string]any{
				{"name": "Build", "specialty_id": s.ID, "seniority": "mid", "hours": "10"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, dataAs[catalogapp.PricingResponse](t, w).Price.Equal(decimal.NewFromInt(1330)))
	})

	t.Run("requires at least one task", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/catalog/products/quote", map[string]any{"tasks": []any{}})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})
}
