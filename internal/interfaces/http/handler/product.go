package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
)

// ProductHandler handles product endpoints of the catalog
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Create a product with its tasks, steps and qualification questions. Automatic prices are computed from specialty rates.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = optionalUserID(c)

	product, err := h.productService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByCode godoc
// @ID           getProductByCode
// @Summary      Get a product by code
// @Tags         products
// @Produce      json
// @Param        code path string true "Product code"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/code/{code} [get]
func (h *ProductHandler) GetByCode(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Search matches name, code and description. Sorting by price uses the effective price.
// @Tags         products
// @Produce      json
// @Param        search    query string false "Search text"
// @Param        category  query string false "Category"
// @Param        area      query string false "Area"
// @Param        status    query string false "draft, active or inactive"
// @Param        sort      query string false "name, price_asc, price_desc or id"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Facets godoc
// @ID           productFacets
// @Summary      Categories and areas in use
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=catalogapp.FacetsResponse}
// @Security     BearerAuth
// @Router       /catalog/products/facets [get]
func (h *ProductHandler) Facets(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	facets, err := h.productService.Facets(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, facets)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Omitted fields are kept; tasks and questions, when present, replace the whole list
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Publish a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "product", h.productService.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Withdraw a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "product", h.productService.Deactivate)
}

// Duplicate godoc
// @ID           duplicateProduct
// @Summary      Copy a product under a new code
// @Description  The copy starts as a draft
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalogapp.DuplicateProductRequest true "New code and name"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/duplicate [post]
func (h *ProductHandler) Duplicate(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	var req catalogapp.DuplicateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Duplicate(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// EnhanceDescription godoc
// @ID           enhanceProductDescription
// @Summary      Suggest an improved description
// @Description  With apply=true the suggestion is saved on the product
// @Tags         products
// @Produce      json
// @Param        id    path  string true  "Product ID" format(uuid)
// @Param        apply query bool   false "Save the suggestion"
// @Success      200 {object} dto.Response{data=catalogapp.EnhanceDescriptionResponse}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/enhance-description [post]
func (h *ProductHandler) EnhanceDescription(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	apply := false
	if raw := c.Query("apply"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "apply must be a boolean")
			return
		}
		apply = parsed
	}

	result, err := h.productService.EnhanceDescription(c.Request.Context(), tenantID, id, apply)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Pricing godoc
// @ID           productPricing
// @Summary      Price breakdown of a product
// @Description  Per task and step values, the automatic price and the surcharge table
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.PricingResponse}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/pricing [get]
func (h *ProductHandler) Pricing(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "product")
	if !ok {
		return
	}

	pricing, err := h.productService.Pricing(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pricing)
}

// Quote godoc
// @ID           quoteTasks
// @Summary      Price a task list without saving
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.QuoteRequest true "Tasks"
// @Success      200 {object} dto.Response{data=catalogapp.PricingResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/quote [post]
func (h *ProductHandler) Quote(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req catalogapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.productService.Quote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}
