package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateSpecialtyRequest represents a request to create a specialty
type CreateSpecialtyRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=30"`
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=2000"`
	JuniorRate  decimal.Decimal `json:"junior_rate" binding:"decimal_gte0"`
	MidRate     decimal.Decimal `json:"mid_rate" binding:"decimal_gte0"`
	SeniorRate  decimal.Decimal `json:"senior_rate" binding:"decimal_gte0"`
}

// UpdateSpecialtyRequest represents a request to update a specialty's descriptive fields
type UpdateSpecialtyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// SetRatesRequest replaces all three hourly rates of a specialty
type SetRatesRequest struct {
	JuniorRate decimal.Decimal `json:"junior_rate" binding:"decimal_gte0"`
	MidRate    decimal.Decimal `json:"mid_rate" binding:"decimal_gte0"`
	SeniorRate decimal.Decimal `json:"senior_rate" binding:"decimal_gte0"`
}

// SpecialtyListFilter represents filter options for the specialty list
type SpecialtyListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// SpecialtyResponse represents a specialty in API responses
type SpecialtyResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JuniorRate  decimal.Decimal `json:"junior_rate"`
	MidRate     decimal.Decimal `json:"mid_rate"`
	SeniorRate  decimal.Decimal `json:"senior_rate"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToSpecialtyResponse converts a domain Specialty to SpecialtyResponse
func ToSpecialtyResponse(s *catalog.Specialty) SpecialtyResponse {
	return SpecialtyResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		Code:        s.Code,
		Name:        s.Name,
		Description: s.Description,
		JuniorRate:  s.JuniorRate,
		MidRate:     s.MidRate,
		SeniorRate:  s.SeniorRate,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

// TaskStepInput describes one step of a task
type TaskStepInput struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	SpecialtyID *uuid.UUID      `json:"specialty_id"`
	Seniority   string          `json:"seniority" binding:"omitempty,oneof=junior mid senior pleno"`
	Hours       decimal.Decimal `json:"hours" binding:"decimal_gte0"`
}

// TaskInput describes one task of a product
type TaskInput struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	SpecialtyID *uuid.UUID      `json:"specialty_id"`
	Seniority   string          `json:"seniority" binding:"omitempty,oneof=junior mid senior pleno"`
	Hours       decimal.Decimal `json:"hours" binding:"decimal_gte0"`
	Steps       []TaskStepInput `json:"steps" binding:"omitempty,dive"`
}

// QuestionInput describes one briefing question
type QuestionInput struct {
	Text     string   `json:"text" binding:"required,min=1,max=500"`
	Type     string   `json:"type" binding:"omitempty,oneof=text number boolean select"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=5000"`
	Category     string           `json:"category" binding:"required,min=1,max=100"`
	Area         string           `json:"area" binding:"max=100"`
	PricingMode  string           `json:"pricing_mode" binding:"omitempty,oneof=automatic manual"`
	ManualPrice  *decimal.Decimal `json:"manual_price"`
	DeliveryDays int              `json:"delivery_days" binding:"min=0"`
	Tags         []string         `json:"tags"`
	Tasks        []TaskInput      `json:"tasks" binding:"omitempty,dive"`
	Questions    []QuestionInput  `json:"questions" binding:"omitempty,dive"`
	CreatedBy    *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left untouched; non-nil slices replace the whole list.
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=5000"`
	Category     *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Area         *string          `json:"area" binding:"omitempty,max=100"`
	PricingMode  *string          `json:"pricing_mode" binding:"omitempty,oneof=automatic manual"`
	ManualPrice  *decimal.Decimal `json:"manual_price"`
	DeliveryDays *int             `json:"delivery_days" binding:"omitempty,min=0"`
	Tags         []string         `json:"tags"`
	Tasks        *[]TaskInput     `json:"tasks"`
	Questions    *[]QuestionInput `json:"questions"`
}

// DuplicateProductRequest copies a product under a new code
type DuplicateProductRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"max=200"`
}

// QuoteRequest prices a task list without saving anything
type QuoteRequest struct {
	Tasks []TaskInput `json:"tasks" binding:"required,min=1,dive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Area     string `form:"area"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active inactive"`
	Sort     string `form:"sort" binding:"omitempty,oneof=name price_asc price_desc id"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// TaskStepResponse represents a task step in API responses
type TaskStepResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SpecialtyID *uuid.UUID      `json:"specialty_id,omitempty"`
	Seniority   string          `json:"seniority"`
	Hours       decimal.Decimal `json:"hours"`
	SortOrder   int             `json:"sort_order"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	SpecialtyID *uuid.UUID         `json:"specialty_id,omitempty"`
	Seniority   string             `json:"seniority"`
	Hours       decimal.Decimal    `json:"hours"`
	TotalHours  decimal.Decimal    `json:"total_hours"`
	SortOrder   int                `json:"sort_order"`
	Steps       []TaskStepResponse `json:"steps"`
}

// QuestionResponse represents a briefing question in API responses
type QuestionResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Type      string    `json:"type"`
	Required  bool      `json:"required"`
	Options   []string  `json:"options"`
	SortOrder int       `json:"sort_order"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID          `json:"id"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Area         string             `json:"area"`
	Status       string             `json:"status"`
	PricingMode  string             `json:"pricing_mode"`
	ManualPrice  decimal.Decimal    `json:"manual_price"`
	Price        decimal.Decimal    `json:"price"`
	DeliveryDays int                `json:"delivery_days"`
	Tags         []string           `json:"tags"`
	TotalHours   decimal.Decimal    `json:"total_hours"`
	Tasks        []TaskResponse     `json:"tasks"`
	Questions    []QuestionResponse `json:"questions"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Version      int                `json:"version"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Area         string          `json:"area"`
	Status       string          `json:"status"`
	PricingMode  string          `json:"pricing_mode"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
	TaskCount    int             `json:"task_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PricingResponse is the price breakdown of a product
type PricingResponse struct {
	ProductID   uuid.UUID              `json:"product_id,omitempty"`
	PricingMode string                 `json:"pricing_mode,omitempty"`
	Price       decimal.Decimal        `json:"price"`
	Breakdown   catalog.PriceBreakdown `json:"breakdown"`
	Tasks       []TaskPricingResponse  `json:"tasks"`
	Surcharges  SurchargeTableResponse `json:"surcharges"`
}

// TaskPricingResponse is the labor value of one task
type TaskPricingResponse struct {
	Name  string          `json:"name"`
	Hours decimal.Decimal `json:"hours"`
	Value decimal.Decimal `json:"value"`
}

// SurchargeTableResponse lists the surcharge percentages in effect
type SurchargeTableResponse struct {
	QualificationFeePct decimal.Decimal `json:"qualification_fee_pct"`
	TaxPct              decimal.Decimal `json:"tax_pct"`
	OperationalFeePct   decimal.Decimal `json:"operational_fee_pct"`
}

// FacetsResponse lists the values available for the catalog filters
type FacetsResponse struct {
	Categories []string `json:"categories"`
	Areas      []string `json:"areas"`
}

// EnhanceDescriptionResponse carries the generated description
type EnhanceDescriptionResponse struct {
	Description string `json:"description"`
	Applied     bool   `json:"applied"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	tasks := make([]TaskResponse, len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		steps := make([]TaskStepResponse, len(t.Steps))
		for j, s := range t.Steps {
			steps[j] = TaskStepResponse{
				ID:          s.ID,
				Name:        s.Name,
				SpecialtyID: s.SpecialtyID,
				Seniority:   string(s.Seniority),
				Hours:       s.Hours,
				SortOrder:   s.SortOrder,
			}
		}
		tasks[i] = TaskResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			SpecialtyID: t.SpecialtyID,
			Seniority:   string(t.Seniority),
			Hours:       t.Hours,
			TotalHours:  t.TotalHours(),
			SortOrder:   t.SortOrder,
			Steps:       steps,
		}
	}

	questions := make([]QuestionResponse, len(p.Questions))
	for i, q := range p.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions[i] = QuestionResponse{
			ID:        q.ID,
			Text:      q.Text,
			Type:      string(q.Type),
			Required:  q.Required,
			Options:   options,
			SortOrder: q.SortOrder,
		}
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Area:         p.Area,
		Status:       string(p.Status),
		PricingMode:  string(p.PricingMode),
		ManualPrice:  p.ManualPrice,
		Price:        p.Price,
		DeliveryDays: p.DeliveryDays,
		Tags:         tags,
		TotalHours:   p.TotalHours(),
		Tasks:        tasks,
		Questions:    questions,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Category:     p.Category,
		Area:         p.Area,
		Status:       string(p.Status),
		PricingMode:  string(p.PricingMode),
		Price:        p.Price,
		DeliveryDays: p.DeliveryDays,
		TaskCount:    len(p.Tasks),
		CreatedAt:    p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i := range products {
		responses[i] = ToProductListResponse(&products[i])
	}
	return responses
}
