package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid reports whether the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

// PricingMode selects how the product price is obtained
type PricingMode string

const (
	// PricingModeAutomatic derives the price from tasks and specialty rates
	PricingModeAutomatic PricingMode = "automatic"
	// PricingModeManual uses ManualPrice as is
	PricingModeManual PricingMode = "manual"
)

// Product is a sellable service made of tasks.
// It is the aggregate root for tasks, steps and briefing questions.
type Product struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Description  string
	Category     string
	Area         string
	Status       ProductStatus
	PricingMode  PricingMode
	ManualPrice  decimal.Decimal
	Price        decimal.Decimal
	DeliveryDays int
	Tags         []string
	Tasks        []Task
	Questions    []Question
}

// NewProduct creates a draft product priced automatically
func NewProduct(tenantID uuid.UUID, code, name, category string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		Category:            strings.TrimSpace(category),
		Status:              ProductStatusDraft,
		PricingMode:         PricingModeAutomatic,
		ManualPrice:         decimal.Zero,
		Price:               decimal.Zero,
		Tags:                make([]string, 0),
		Tasks:               make([]Task, 0),
		Questions:           make([]Question, 0),
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))

	return p, nil
}

// Update changes the descriptive fields
func (p *Product) Update(name, description string, deliveryDays int, tags []string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if deliveryDays < 0 {
		return shared.NewDomainError("INVALID_DELIVERY_DAYS", "Delivery days cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.DeliveryDays = deliveryDays
	p.Tags = normalizeTags(tags)
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetDescription replaces only the description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetClassification sets category and area used by the catalog filters
func (p *Product) SetClassification(category, area string) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	p.Category = strings.TrimSpace(category)
	p.Area = strings.TrimSpace(area)
	p.IncrementVersion()
	return nil
}

// ReplaceTasks swaps the whole task list. Callers reprice afterwards.
func (p *Product) ReplaceTasks(tasks []Task) error {
	for i := range tasks {
		if strings.TrimSpace(tasks[i].Name) == "" {
			return shared.NewDomainError("INVALID_TASK", "Task name cannot be empty")
		}
		if tasks[i].Hours.IsNegative() {
			return shared.NewDomainError("INVALID_HOURS", "Task hours cannot be negative")
		}
		for j := range tasks[i].Steps {
			if strings.TrimSpace(tasks[i].Steps[j].Name) == "" {
				return shared.NewDomainError("INVALID_STEP", "Step name cannot be empty")
			}
			if tasks[i].Steps[j].Hours.IsNegative() {
				return shared.NewDomainError("INVALID_HOURS", "Step hours cannot be negative")
			}
			if tasks[i].Steps[j].ID == uuid.Nil {
				tasks[i].Steps[j].ID = uuid.New()
			}
			tasks[i].Steps[j].SortOrder = j
		}
		if tasks[i].ID == uuid.Nil {
			tasks[i].ID = uuid.New()
		}
		tasks[i].SortOrder = i
	}

	p.Tasks = tasks
	p.IncrementVersion()
	return nil
}

// ReplaceQuestions swaps the briefing questions
func (p *Product) ReplaceQuestions(questions []Question) {
	for i := range questions {
		if questions[i].ID == uuid.Nil {
			questions[i].ID = uuid.New()
		}
		questions[i].SortOrder = i
	}
	p.Questions = questions
	p.IncrementVersion()
}

// UsePricing switches the pricing mode. manualPrice is required for manual mode.
func (p *Product) UsePricing(mode PricingMode, manualPrice *decimal.Decimal) error {
	switch mode {
	case PricingModeAutomatic:
		p.PricingMode = mode
	case PricingModeManual:
		if manualPrice == nil {
			return shared.NewDomainError("INVALID_PRICE", "Manual pricing requires a price")
		}
		if manualPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Manual price cannot be negative")
		}
		p.PricingMode = mode
		p.ManualPrice = manualPrice.Round(2)
	default:
		return shared.NewDomainError("INVALID_PRICING_MODE", "Unknown pricing mode: "+string(mode))
	}
	p.IncrementVersion()
	return nil
}

// Reprice recomputes the effective price and returns the automatic breakdown.
// In manual mode the breakdown is informational and Price follows ManualPrice.
func (p *Product) Reprice(calc *PriceCalculator, rates RateSource) PriceBreakdown {
	breakdown := calc.AutomaticPrice(p.Tasks, rates)

	newPrice := breakdown.Total
	if p.PricingMode == PricingModeManual {
		newPrice = p.ManualPrice
	}

	if !newPrice.Equal(p.Price) {
		oldPrice := p.Price
		p.Price = newPrice
		p.IncrementVersion()
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}

	return breakdown
}

// Activate publishes the product. It needs at least one task and a positive price.
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if len(p.Tasks) == 0 {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Product needs at least one task before activation")
	}
	if !p.Price.IsPositive() {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Product needs a positive price before activation")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate withdraws an active product from the catalog
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDraft {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Draft products cannot be deactivated")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Duplicate copies the product into a new draft with fresh identifiers
func (p *Product) Duplicate(newCode, newName string) (*Product, error) {
	if strings.TrimSpace(newName) == "" {
		newName = p.Name + " (copy)"
	}
	cp, err := NewProduct(p.TenantID, newCode, newName, p.Category)
	if err != nil {
		return nil, err
	}

	cp.Description = p.Description
	cp.Area = p.Area
	cp.PricingMode = p.PricingMode
	cp.ManualPrice = p.ManualPrice
	cp.Price = p.Price
	cp.DeliveryDays = p.DeliveryDays
	cp.Tags = append([]string(nil), p.Tags...)

	cp.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		t.ID = uuid.New()
		steps := make([]TaskStep, len(t.Steps))
		for j, s := range t.Steps {
			s.ID = uuid.New()
			steps[j] = s
		}
		t.Steps = steps
		cp.Tasks[i] = t
	}
	cp.Questions = make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		q.ID = uuid.New()
		q.Options = append([]string(nil), q.Options...)
		cp.Questions[i] = q
	}

	return cp, nil
}

// MarkDeleted records the deletion event before the repository removes the product
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// SpecialtyIDs returns the distinct specialties referenced by all tasks and steps
func (p *Product) SpecialtyIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range p.Tasks {
		for _, id := range p.Tasks[i].SpecialtyIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// TotalHours sums the hours of every task
func (p *Product) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Tasks {
		total = total.Add(p.Tasks[i].TotalHours())
	}
	return total
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !isCodeRune(r) {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category cannot exceed 100 characters")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
