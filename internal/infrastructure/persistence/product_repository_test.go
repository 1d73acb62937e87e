package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aggregateCmpOpts compares persisted aggregates by value
var aggregateCmpOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
	cmpopts.IgnoreUnexported(shared.BaseAggregateRoot{}),
	cmpopts.IgnoreFields(shared.BaseEntity{}, "UpdatedAt"),
	cmpopts.EquateEmpty(),
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, code, name string, specialtyID *uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, code, name, "Development")
	require.NoError(t, err)

	task, err := catalog.NewTask("Build", specialtyID, catalog.SeniorityMid, decimal.NewFromInt(4))
	require.NoError(t, err)
	_, err = task.AddStep("Review", nil, catalog.SenioritySenior, decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	require.NoError(t, p.ReplaceTasks([]catalog.Task{*task}))

	q, err := catalog.NewQuestion("Which stack?", catalog.QuestionTypeSelect, true, []string{"Go", "Rust"})
	require.NoError(t, err)
	p.ReplaceQuestions([]catalog.Question{*q})
	return p
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	specialtyID := uuid.New()

	product := newTestProduct(t, tenantID, "web-001", "Landing page", &specialtyID)
	product.Tags = []string{"web", "marketing"}
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(product, found, aggregateCmpOpts); diff != "" {
		t.Errorf("persisted product mismatch (-want +got):\n%s", diff)
	}

	byCode, err := repo.FindByCode(ctx, tenantID, "web-001")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byCode.ID)

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_SavePrunesRemovedChildren(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product := newTestProduct(t, tenantID, "WEB-002", "Blog", nil)
	require.NoError(t, repo.Save(ctx, product))

	replacement, err := catalog.NewTask("Write posts", nil, catalog.SeniorityJunior, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, product.ReplaceTasks([]catalog.Task{*replacement}))
	product.ReplaceQuestions(nil)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	require.Len(t, found.Tasks, 1)
	assert.Equal(t, "Write posts", found.Tasks[0].Name)
	assert.Empty(t, found.Tasks[0].Steps)
	assert.Empty(t, found.Questions)

	var steps int64
	require.NoError(t, db.Table("task_steps").Where("product_id = ?", product.ID).Count(&steps).Error)
	assert.Zero(t, steps)
}

func TestGormProductRepository_FindAllForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	seed := []struct {
		code, name, area string
		price            int64
	}{
		{"P-3", "banner", "Marketing", 300},
		{"P-1", "Audit", "Security", 500},
		{"P-2", "audit", "security", 100},
	}
	for _, s := range seed {
		p := newTestProduct(t, tenantID, s.code, s.name, nil)
		require.NoError(t, p.SetClassification("Services", s.area))
		p.Price = decimal.NewFromInt(s.price)
		require.NoError(t, repo.Save(ctx, p))
	}
	require.NoError(t, repo.Save(ctx, newTestProduct(t, uuid.New(), "P-9", "Other tenant", nil)))

	codes := func(products []catalog.Product) []string {
		out := make([]string, len(products))
		for i := range products {
			out[i] = products[i].Code
		}
		return out
	}

	tests := []struct {
		name  string
		query catalog.ProductQuery
		want  []string
	}{
		{"name sort breaks ties by code", catalog.ProductQuery{}, []string{"P-1", "P-2", "P-3"}},
		{"price ascending", catalog.ProductQuery{Sort: catalog.ProductSortPriceAsc}, []string{"P-2", "P-3", "P-1"}},
		{"price descending", catalog.ProductQuery{Sort: catalog.ProductSortPriceDesc}, []string{"P-1", "P-3", "P-2"}},
		{"code sort", catalog.ProductQuery{Sort: catalog.ProductSortID}, []string{"P-1", "P-2", "P-3"}},
		{"area is case-insensitive", catalog.ProductQuery{Area: "SECURITY"}, []string{"P-1", "P-2"}},
		{"search matches code", catalog.ProductQuery{Search: "p-3"}, []string{"P-3"}},
		{"search escapes wildcards", catalog.ProductQuery{Search: "%"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.query.Filter(1, 20)
			products, err := repo.FindAllForTenant(ctx, tenantID, filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(products))

			count, err := repo.CountForTenant(ctx, tenantID, filter)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), count)
		})
	}

	t.Run("paging", func(t *testing.T) {
		products, err := repo.FindAllForTenant(ctx, tenantID, catalog.ProductQuery{}.Filter(2, 2))
		require.NoError(t, err)
		assert.Equal(t, []string{"P-3"}, codes(products))
	})
}

func TestGormProductRepository_FindBySpecialtyAndFacets(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	specialtyID := uuid.New()

	onTask := newTestProduct(t, tenantID, "A-1", "Uses specialty", &specialtyID)
	require.NoError(t, onTask.SetClassification("Design", "Web"))
	require.NoError(t, repo.Save(ctx, onTask))

	onStep := newTestProduct(t, tenantID, "A-2", "Step only", nil)
	onStep.Tasks[0].Steps[0].SpecialtyID = &specialtyID
	require.NoError(t, repo.Save(ctx, onStep))

	unrelated := newTestProduct(t, tenantID, "A-3", "Unrelated", nil)
	require.NoError(t, repo.Save(ctx, unrelated))

	products, err := repo.FindBySpecialty(ctx, tenantID, specialtyID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A-1", products[0].Code)
	assert.Equal(t, "A-2", products[1].Code)

	facets, err := repo.Facets(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Development"}, facets.Categories)
	assert.Equal(t, []string{"Web"}, facets.Areas)
}

func TestGormProductRepository_DeleteForTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product := newTestProduct(t, tenantID, "DEL-1", "Temporary", nil)
	require.NoError(t, repo.Save(ctx, product))

	assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), product.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, product.ID))

	exists, err := repo.ExistsByCode(ctx, tenantID, "del-1")
	require.NoError(t, err)
	assert.False(t, exists)

	var tasks int64
	require.NoError(t, db.Table("product_tasks").Where("product_id = ?", product.ID).Count(&tasks).Error)
	assert.Zero(t, tasks)
}
