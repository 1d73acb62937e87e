package migration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/application/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CatalogSeed is the YAML document loaded by the seed command
type CatalogSeed struct {
	Specialties []SpecialtySeed `yaml:"specialties"`
	Products    []ProductSeed   `yaml:"products"`
}

// SpecialtySeed describes one specialty and its hourly rates
type SpecialtySeed struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	JuniorRate  string `yaml:"junior_rate"`
	MidRate     string `yaml:"mid_rate"`
	SeniorRate  string `yaml:"senior_rate"`
}

// ProductSeed describes one catalog product
type ProductSeed struct {
	Code         string     `yaml:"code"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Category     string     `yaml:"category"`
	Area         string     `yaml:"area"`
	DeliveryDays int        `yaml:"delivery_days"`
	Tags         []string   `yaml:"tags"`
	Tasks        []TaskSeed `yaml:"tasks"`
}

// TaskSeed is a product task; Specialty holds a specialty code
type TaskSeed struct {
	Name      string `yaml:"name"`
	Specialty string `yaml:"specialty"`
	Seniority string `yaml:"seniority"`
	Hours     string `yaml:"hours"`
}

// SeedResult counts what a seed run created and skipped
type SeedResult struct {
	SpecialtiesCreated int
	SpecialtiesSkipped int
	ProductsCreated    int
	ProductsSkipped    int
	ProductsRepriced   int
}

// SpecialtyCatalog is the part of the specialty service the seeder needs
type SpecialtyCatalog interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalog.CreateSpecialtyRequest) (*catalog.SpecialtyResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter catalog.SpecialtyListFilter) ([]catalog.SpecialtyResponse, int64, error)
}

// ProductCatalog is the part of the product service the seeder needs
type ProductCatalog interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalog.CreateProductRequest) (*catalog.ProductResponse, error)
	RepriceBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) (int, error)
}

// LoadCatalogSeed reads and validates a seed file
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseCatalogSeed(data)
}

// ParseCatalogSeed decodes a seed document, rejecting unknown keys, bad
// amounts and duplicate codes
func ParseCatalogSeed(data []byte) (*CatalogSeed, error) {
	var seed CatalogSeed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid seed document: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Merge appends the entries of other. Call Validate afterwards to catch
// codes present in both.
func (seed *CatalogSeed) Merge(other *CatalogSeed) {
	if other == nil {
		return
	}
	seed.Specialties = append(seed.Specialties, other.Specialties...)
	seed.Products = append(seed.Products, other.Products...)
}

// Validate checks required fields, amounts and code uniqueness
func (seed *CatalogSeed) Validate() error {
	specialties := make(map[string]bool, len(seed.Specialties))
	for i, s := range seed.Specialties {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if code == "" || strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("specialties[%d]: code and name are required", i)
		}
		if specialties[code] {
			return fmt.Errorf("specialties[%d]: duplicate code %s", i, code)
		}
		specialties[code] = true
		for field, raw := range map[string]string{"junior_rate": s.JuniorRate, "mid_rate": s.MidRate, "senior_rate": s.SeniorRate} {
			if _, err := parseAmount(raw); err != nil {
				return fmt.Errorf("specialties[%d].%s: %w", i, field, err)
			}
		}
	}

	products := make(map[string]bool, len(seed.Products))
	for i, p := range seed.Products {
		code := strings.ToUpper(strings.TrimSpace(p.Code))
		if code == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("products[%d]: code, name and category are required", i)
		}
		if products[code] {
			return fmt.Errorf("products[%d]: duplicate code %s", i, code)
		}
		products[code] = true
		for j, t := range p.Tasks {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("products[%d].tasks[%d]: name is required", i, j)
			}
			if _, err := parseAmount(t.Hours); err != nil {
				return fmt.Errorf("products[%d].tasks[%d].hours: %w", i, j, err)
			}
		}
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", raw)
	}
	return d, nil
}

// Seeder loads a CatalogSeed into a tenant through the catalog services
type Seeder struct {
	specialties SpecialtyCatalog
	products    ProductCatalog
	logger      *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(specialties SpecialtyCatalog, products ProductCatalog, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{specialties: specialties, products: products, logger: logger}
}

// Apply creates the specialties and products missing from the tenant. Codes
// that already exist are skipped, so running the same file twice is harmless.
func (s *Seeder) Apply(ctx context.Context, tenantID uuid.UUID, seed *CatalogSeed) (*SeedResult, error) {
	result := &SeedResult{}
	created := make([]uuid.UUID, 0, len(seed.Specialties))

	for _, sp := range seed.Specialties {
		junior, _ := parseAmount(sp.JuniorRate)
		mid, _ := parseAmount(sp.MidRate)
		senior, _ := parseAmount(sp.SeniorRate)
		resp, err := s.specialties.Create(ctx, tenantID, catalog.CreateSpecialtyRequest{
			Code:        sp.Code,
			Name:        sp.Name,
			Description: sp.Description,
			JuniorRate:  junior,
			MidRate:     mid,
			SeniorRate:  senior,
		})
		if isAlreadyExists(err) {
			result.SpecialtiesSkipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("specialty %s: %w", sp.Code, err)
		}
		created = append(created, resp.ID)
		result.SpecialtiesCreated++
	}

	codes, err := s.specialtyIDs(ctx, tenantID)
	if err != nil {
		return result, err
	}

	for _, p := range seed.Products {
		req, err := productRequest(p, codes)
		if err != nil {
			return result, err
		}
		_, err = s.products.Create(ctx, tenantID, req)
		if isAlreadyExists(err) {
			result.ProductsSkipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("product %s: %w", p.Code, err)
		}
		result.ProductsCreated++
	}

	// products seeded earlier were priced without the new specialties
	for _, id := range created {
		n, err := s.products.RepriceBySpecialty(ctx, tenantID, id)
		if err != nil {
			return result, fmt.Errorf("reprice specialty %s: %w", id, err)
		}
		result.ProductsRepriced += n
	}

	s.logger.Info("Catalog seed applied",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("specialties_created", result.SpecialtiesCreated),
		zap.Int("specialties_skipped", result.SpecialtiesSkipped),
		zap.Int("products_created", result.ProductsCreated),
		zap.Int("products_skipped", result.ProductsSkipped),
		zap.Int("products_repriced", result.ProductsRepriced),
	)
	return result, nil
}

func (s *Seeder) specialtyIDs(ctx context.Context, tenantID uuid.UUID) (map[string]uuid.UUID, error) {
	const pageSize = 100
	ids := make(map[string]uuid.UUID)
	for page := 1; ; page++ {
		list, total, err := s.specialties.List(ctx, tenantID, catalog.SpecialtyListFilter{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, fmt.Errorf("list specialties: %w", err)
		}
		for _, sp := range list {
			ids[strings.ToUpper(sp.Code)] = sp.ID
		}
		if len(list) < pageSize || int64(page*pageSize) >= total {
			return ids, nil
		}
	}
}

func productRequest(p ProductSeed, specialties map[string]uuid.UUID) (catalog.CreateProductRequest, error) {
	tasks := make([]catalog.TaskInput, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		hours, _ := parseAmount(t.Hours)
		task := catalog.TaskInput{Name: t.Name, Seniority: t.Seniority, Hours: hours}
		if code := strings.ToUpper(strings.TrimSpace(t.Specialty)); code != "" {
			id, ok := specialties[code]
			if !ok {
				return catalog.CreateProductRequest{}, fmt.Errorf("product %s: unknown specialty %s", p.Code, t.Specialty)
			}
			task.SpecialtyID = &id
		}
		tasks = append(tasks, task)
	}
	return catalog.CreateProductRequest{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Area:         p.Area,
		DeliveryDays: p.DeliveryDays,
		Tags:         p.Tags,
		Tasks:        tasks,
	}, nil
}

func isAlreadyExists(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "ALREADY_EXISTS"
}
