package catalog

import (
	"sort"
	"strings"

	"github.com/servicehub/admin/internal/domain/shared"
)

// ProductSort is one of the catalog list orderings
type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	// ProductSortID orders by product code, the human-facing identifier
	ProductSortID ProductSort = "id"
)

// ParseProductSort maps a request value to a sort key, defaulting to name
func ParseProductSort(s string) ProductSort {
	switch ProductSort(strings.ToLower(strings.TrimSpace(s))) {
	case ProductSortPriceAsc:
		return ProductSortPriceAsc
	case ProductSortPriceDesc:
		return ProductSortPriceDesc
	case ProductSortID:
		return ProductSortID
	}
	return ProductSortName
}

// ProductQuery is the catalog list filter: a conjunction of optional predicates plus an ordering
type ProductQuery struct {
	Search   string
	Category string
	Area     string
	Status   ProductStatus
	Sort     ProductSort
}

// Matches reports whether p passes every non-empty predicate
func (q ProductQuery) Matches(p *Product) bool {
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Name), s) &&
			!strings.Contains(strings.ToLower(p.Code), s) &&
			!strings.Contains(strings.ToLower(p.Description), s) {
			return false
		}
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Area != "" && !strings.EqualFold(p.Area, q.Area) {
		return false
	}
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	return true
}

// Less orders two products by the query's sort key, breaking ties by code and then ID
func (q ProductQuery) Less(a, b *Product) bool {
	switch q.Sort {
	case ProductSortPriceAsc:
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
	case ProductSortPriceDesc:
		if !a.Price.Equal(b.Price) {
			return a.Price.GreaterThan(b.Price)
		}
	case ProductSortID:
	default:
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	return a.ID.String() < b.ID.String()
}

// Apply filters and sorts products without mutating the input
func (q ProductQuery) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		if q.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return q.Less(&out[i], &out[j])
	})
	return out
}

// Filter converts the query into a repository filter for one page
func (q ProductQuery) Filter(page, pageSize int) shared.Filter {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  string(ParseProductSort(string(q.Sort))),
		OrderDir: "asc",
		Search:   strings.TrimSpace(q.Search),
		Filters:  make(map[string]interface{}),
	}
	if q.Category != "" {
		f.Filters["category"] = q.Category
	}
	if q.Area != "" {
		f.Filters["area"] = q.Area
	}
	if q.Status != "" {
		f.Filters["status"] = string(q.Status)
	}
	return f.Normalize()
}
