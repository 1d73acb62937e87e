package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
)

// SpecialtyHandler handles specialty endpoints of the catalog
type SpecialtyHandler struct {
	BaseHandler
	specialtyService *catalogapp.SpecialtyService
}

// NewSpecialtyHandler creates a new SpecialtyHandler
func NewSpecialtyHandler(specialtyService *catalogapp.SpecialtyService) *SpecialtyHandler {
	return &SpecialtyHandler{specialtyService: specialtyService}
}

// Create godoc
// @ID           createSpecialty
// @Summary      Create a specialty
// @Description  Create a specialty with its junior, mid and senior hourly rates
// @Tags         specialties
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateSpecialtyRequest true "Specialty"
// @Success      201 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/specialties [post]
func (h *SpecialtyHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req catalogapp.CreateSpecialtyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	specialty, err := h.specialtyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, specialty)
}

// GetByID godoc
// @ID           getSpecialtyById
// @Summary      Get a specialty
// @Tags         specialties
// @Produce      json
// @Param        id path string true "Specialty ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id} [get]
func (h *SpecialtyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "specialty")
	if !ok {
		return
	}

	specialty, err := h.specialtyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, specialty)
}

// List godoc
// @ID           listSpecialties
// @Summary      List specialties
// @Tags         specialties
// @Produce      json
// @Param        search    query string false "Search by code or name"
// @Param        status    query string false "active or inactive"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.SpecialtyResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /catalog/specialties [get]
func (h *SpecialtyHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter catalogapp.SpecialtyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	specialties, total, err := h.specialtyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, specialties, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateSpecialty
// @Summary      Update a specialty's name or description
// @Tags         specialties
// @Accept       json
// @Produce      json
// @Param        id      path string true "Specialty ID" format(uuid)
// @Param        request body catalogapp.UpdateSpecialtyRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id} [put]
func (h *SpecialtyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "specialty")
	if !ok {
		return
	}

	var req catalogapp.UpdateSpecialtyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	specialty, err := h.specialtyService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, specialty)
}

// SetRates godoc
// @ID           setSpecialtyRates
// @Summary      Replace the hourly rates
// @Description  Products priced automatically from this specialty are repriced in the background
// @Tags         specialties
// @Accept       json
// @Produce      json
// @Param        id      path string true "Specialty ID" format(uuid)
// @Param        request body catalogapp.SetRatesRequest true "Rates"
// @Success      200 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id}/rates [put]
func (h *SpecialtyHandler) SetRates(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "specialty")
	if !ok {
		return
	}

	var req catalogapp.SetRatesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	specialty, err := h.specialtyService.SetRates(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, specialty)
}

// Activate godoc
// @ID           activateSpecialty
// @Summary      Activate a specialty
// @Tags         specialties
// @Produce      json
// @Param        id path string true "Specialty ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id}/activate [post]
func (h *SpecialtyHandler) Activate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "specialty", h.specialtyService.Activate)
}

// Deactivate godoc
// @ID           deactivateSpecialty
// @Summary      Deactivate a specialty
// @Tags         specialties
// @Produce      json
// @Param        id path string true "Specialty ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.SpecialtyResponse}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id}/deactivate [post]
func (h *SpecialtyHandler) Deactivate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "specialty", h.specialtyService.Deactivate)
}

// Delete godoc
// @ID           deleteSpecialty
// @Summary      Delete a specialty
// @Description  Refused while a product task references it
// @Tags         specialties
// @Param        id path string true "Specialty ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/specialties/{id} [delete]
func (h *SpecialtyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "specialty")
	if !ok {
		return
	}

	if err := h.specialtyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
