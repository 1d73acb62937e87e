package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	specialtyRepo  catalog.SpecialtyRepository
	calculator     *catalog.PriceCalculator
	enhancer       catalog.DescriptionEnhancer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService.
// A nil enhancer falls back to the template enhancer.
func NewProductService(
	productRepo catalog.ProductRepository,
	specialtyRepo catalog.SpecialtyRepository,
	calculator *catalog.PriceCalculator,
	enhancer catalog.DescriptionEnhancer,
) *ProductService {
	if calculator == nil {
		calculator = catalog.NewPriceCalculator(catalog.DefaultPriceTable())
	}
	if enhancer == nil {
		enhancer = catalog.NewTemplateEnhancer()
	}
	return &ProductService{
		productRepo:   productRepo,
		specialtyRepo: specialtyRepo,
		calculator:    calculator,
		enhancer:      enhancer,
		logger:        zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger used for background repricing
func (s *ProductService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create creates a new product and prices it
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.Category)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}

	if err := product.Update(req.Name, req.Description, req.DeliveryDays, req.Tags); err != nil {
		return nil, err
	}
	if err := product.SetClassification(req.Category, req.Area); err != nil {
		return nil, err
	}

	tasks, err := buildTasks(req.Tasks)
	if err != nil {
		return nil, err
	}
	if err := product.ReplaceTasks(tasks); err != nil {
		return nil, err
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}
	product.ReplaceQuestions(questions)

	if req.PricingMode != "" {
		if err := product.UsePricing(catalog.PricingMode(req.PricingMode), req.ManualPrice); err != nil {
			return nil, err
		}
	}

	if _, err := s.reprice(ctx, product, true); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by code
func (s *ProductService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products matching every given predicate
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	query := catalog.ProductQuery{
		Search:   filter.Search,
		Category: filter.Category,
		Area:     filter.Area,
		Status:   catalog.ProductStatus(filter.Status),
		Sort:     catalog.ParseProductSort(filter.Sort),
	}
	domainFilter := query.Filter(filter.Page, filter.PageSize)

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Facets returns the categories and areas in use
func (s *ProductService) Facets(ctx context.Context, tenantID uuid.UUID) (*FacetsResponse, error) {
	facets, err := s.productRepo.Facets(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := &FacetsResponse{Categories: facets.Categories, Areas: facets.Areas}
	if response.Categories == nil {
		response.Categories = []string{}
	}
	if response.Areas == nil {
		response.Areas = []string{}
	}
	return response, nil
}

// Update applies a partial update and reprices the product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	name, description, deliveryDays, tags := product.Name, product.Description, product.DeliveryDays, product.Tags
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.DeliveryDays != nil {
		deliveryDays = *req.DeliveryDays
	}
	if req.Tags != nil {
		tags = req.Tags
	}
	if err := product.Update(name, description, deliveryDays, tags); err != nil {
		return nil, err
	}

	if req.Category != nil || req.Area != nil {
		category, area := product.Category, product.Area
		if req.Category != nil {
			category = *req.Category
		}
		if req.Area != nil {
			area = *req.Area
		}
		if err := product.SetClassification(category, area); err != nil {
			return nil, err
		}
	}

	tasksChanged := req.Tasks != nil
	if tasksChanged {
		tasks, err := buildTasks(*req.Tasks)
		if err != nil {
			return nil, err
		}
		if err := product.ReplaceTasks(tasks); err != nil {
			return nil, err
		}
	}

	if req.Questions != nil {
		questions, err := buildQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
		product.ReplaceQuestions(questions)
	}

	if req.PricingMode != nil || req.ManualPrice != nil {
		mode := product.PricingMode
		if req.PricingMode != nil {
			mode = catalog.PricingMode(*req.PricingMode)
		}
		manual := req.ManualPrice
		if manual == nil && mode == catalog.PricingModeManual {
			current := product.ManualPrice
			manual = &current
		}
		if err := product.UsePricing(mode, manual); err != nil {
			return nil, err
		}
	}

	if _, err := s.reprice(ctx, product, tasksChanged); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	product.MarkDeleted()

	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	return shared.PublishAndClear(ctx, s.eventPublisher, product)
}

// Activate publishes a product in the catalog
func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Activate)
}

// Deactivate withdraws a product from the catalog
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, tenantID, productID uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Duplicate copies a product into a new draft under another code
func (s *ProductService) Duplicate(ctx context.Context, tenantID, productID uuid.UUID, req DuplicateProductRequest) (*ProductResponse, error) {
	source, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	copied, err := source.Duplicate(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.reprice(ctx, copied, false); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, copied); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, copied); err != nil {
		return nil, err
	}

	response := ToProductResponse(copied)
	return &response, nil
}

// EnhanceDescription generates a richer description. With apply it is saved on the product.
func (s *ProductService) EnhanceDescription(ctx context.Context, tenantID, productID uuid.UUID, apply bool) (*EnhanceDescriptionResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	description, err := s.enhancer.Enhance(ctx, product)
	if err != nil {
		return nil, err
	}
	if !apply {
		return &EnhanceDescriptionResponse{Description: description}, nil
	}

	product.SetDescription(description)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
		return nil, err
	}
	return &EnhanceDescriptionResponse{Description: description, Applied: true}, nil
}

// Pricing returns the price breakdown of a stored product using current rates
func (s *ProductService) Pricing(ctx context.Context, tenantID, productID uuid.UUID) (*PricingResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	rates, err := loadRates(ctx, s.specialtyRepo, tenantID, product.Tasks)
	if err != nil {
		return nil, err
	}

	response := s.pricingFor(product.Tasks, rates)
	response.ProductID = product.ID
	response.PricingMode = string(product.PricingMode)
	response.Price = product.Price
	return response, nil
}

// Quote prices a task list without persisting anything.
// Unknown specialties are valued at zero.
func (s *ProductService) Quote(ctx context.Context, tenantID uuid.UUID, req QuoteRequest) (*PricingResponse, error) {
	tasks, err := buildTasks(req.Tasks)
	if err != nil {
		return nil, err
	}
	rates, err := loadRates(ctx, s.specialtyRepo, tenantID, tasks)
	if err != nil {
		return nil, err
	}

	response := s.pricingFor(tasks, rates)
	response.Price = response.Breakdown.Total
	return response, nil
}

// RepriceBySpecialty reprices every product that references the specialty and
// returns how many prices changed
func (s *ProductService) RepriceBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "reprice_by_specialty")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrSpecialtyID, specialtyID.String(),
	)

	products, err := s.productRepo.FindBySpecialty(ctx, tenantID, specialtyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	changed := 0
	for i := range products {
		product := &products[i]
		before := product.Price
		if _, err := s.reprice(ctx, product, false); err != nil {
			telemetry.RecordError(span, err)
			return changed, err
		}
		if before.Equal(product.Price) {
			continue
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			telemetry.RecordError(span, err)
			return changed, err
		}
		if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
			s.logger.Warn("Failed to publish product events after reprice",
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
		}
		changed++
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRepriced, changed)
	return changed, nil
}

// reprice loads the rates of the product's specialties and recomputes its price.
// With strict, tasks referencing unknown specialties are rejected.
func (s *ProductService) reprice(ctx context.Context, product *catalog.Product, strict bool) (catalog.PriceBreakdown, error) {
	rates, err := loadRates(ctx, s.specialtyRepo, product.TenantID, product.Tasks)
	if err != nil {
		return catalog.PriceBreakdown{}, err
	}
	if strict {
		for _, id := range product.SpecialtyIDs() {
			if _, ok := rates[id]; !ok {
				return catalog.PriceBreakdown{}, shared.NewDomainError("INVALID_SPECIALTY", "Specialty not found: "+id.String())
			}
		}
	}
	return product.Reprice(s.calculator, rates), nil
}

func (s *ProductService) pricingFor(tasks []catalog.Task, rates catalog.RateSource) *PricingResponse {
	table := s.calculator.Table()
	taskPricing := make([]TaskPricingResponse, len(tasks))
	for i := range tasks {
		taskPricing[i] = TaskPricingResponse{
			Name:  tasks[i].Name,
			Hours: tasks[i].TotalHours(),
			Value: s.calculator.TaskValue(tasks[i], rates).Round(2),
		}
	}
	return &PricingResponse{
		Breakdown: s.calculator.AutomaticPrice(tasks, rates),
		Tasks:     taskPricing,
		Surcharges: SurchargeTableResponse{
			QualificationFeePct: table.QualificationFeePct,
			TaxPct:              table.TaxPct,
			OperationalFeePct:   table.OperationalFeePct,
		},
	}
}

func buildTasks(inputs []TaskInput) ([]catalog.Task, error) {
	tasks := make([]catalog.Task, 0, len(inputs))
	for _, in := range inputs {
		seniority, ok := catalog.ParseSeniority(in.Seniority)
		if !ok {
			return nil, shared.NewDomainError("INVALID_SENIORITY", "Unknown seniority level: "+in.Seniority)
		}
		task, err := catalog.NewTask(in.Name, in.SpecialtyID, seniority, in.Hours)
		if err != nil {
			return nil, err
		}
		task.Description = in.Description

		for _, step := range in.Steps {
			var stepSeniority catalog.Seniority
			if step.Seniority != "" {
				parsed, ok := catalog.ParseSeniority(step.Seniority)
				if !ok {
					return nil, shared.NewDomainError("INVALID_SENIORITY", "Unknown seniority level: "+step.Seniority)
				}
				stepSeniority = parsed
			}
			if _, err := task.AddStep(step.Name, step.SpecialtyID, stepSeniority, step.Hours); err != nil {
				return nil, err
			}
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func buildQuestions(inputs []QuestionInput) ([]catalog.Question, error) {
	questions := make([]catalog.Question, 0, len(inputs))
	for _, in := range inputs {
		q, err := catalog.NewQuestion(in.Text, catalog.QuestionType(in.Type), in.Required, in.Options)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, nil
}
