package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
)

// CompanyHandler handles company and portal credential endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Create godoc
// @ID           createCompany
// @Summary      Register a company
// @Description  Clients buy services; partners deliver them and may hold qualifications
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCompanyRequest true "Company"
// @Success      201 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req partnerapp.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = optionalUserID(c)

	company, err := h.companyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID godoc
// @ID           getCompanyById
// @Summary      Get a company with its credentials
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List godoc
// @ID           listCompanies
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        search    query string false "Name, trade name or document"
// @Param        type      query string false "client or partner"
// @Param        status    query string false "active, inactive or blocked"
// @Param        order_by  query string false "name, created_at or balance"
// @Param        order_dir query string false "asc or desc"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.CompanyListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /partners/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter partnerapp.CompanyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	companies, total, err := h.companyService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, companies, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCompany
// @Summary      Update a company profile
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id      path string true "Company ID" format(uuid)
// @Param        request body partnerapp.UpdateCompanyRequest true "Changes"
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /partners/companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var req partnerapp.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Delete godoc
// @ID           deleteCompany
// @Summary      Delete a company
// @Description  Refused while the wallet holds a balance
// @Tags         companies
// @Param        id path string true "Company ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	if err := h.companyService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @ID           activateCompany
// @Summary      Activate a company
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/activate [post]
func (h *CompanyHandler) Activate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "company", h.companyService.Activate)
}

// Deactivate godoc
// @ID           deactivateCompany
// @Summary      Deactivate a company
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/deactivate [post]
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "company", h.companyService.Deactivate)
}

// Block godoc
// @ID           blockCompany
// @Summary      Block a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id      path string true "Company ID" format(uuid)
// @Param        request body partnerapp.BlockCompanyRequest true "Reason"
// @Success      200 {object} dto.Response{data=partnerapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/block [post]
func (h *CompanyHandler) Block(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var req partnerapp.BlockCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	company, err := h.companyService.Block(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// ListCredentials godoc
// @ID           listCompanyCredentials
// @Summary      List portal credentials of a company
// @Tags         credentials
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]partnerapp.CredentialResponse}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials [get]
func (h *CompanyHandler) ListCredentials(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company.Credentials)
}

// AddCredential godoc
// @ID           addCompanyCredential
// @Summary      Add a portal credential
// @Description  Password and confirmation must match
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        id      path string true "Company ID" format(uuid)
// @Param        request body partnerapp.AddCredentialRequest true "Credential"
// @Success      201 {object} dto.Response{data=partnerapp.CredentialResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials [post]
func (h *CompanyHandler) AddCredential(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var req partnerapp.AddCredentialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	credential, err := h.companyService.AddCredential(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, credential)
}

// ResetCredentialPassword godoc
// @ID           resetCredentialPassword
// @Summary      Set a new password on a credential
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        id           path string true "Company ID" format(uuid)
// @Param        credentialId path string true "Credential ID" format(uuid)
// @Param        request      body partnerapp.ResetCredentialPasswordRequest true "Password"
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials/{credentialId}/password [put]
func (h *CompanyHandler) ResetCredentialPassword(c *gin.Context) {
	tenantID, companyID, credentialID, ok := h.credentialPath(c)
	if !ok {
		return
	}

	var req partnerapp.ResetCredentialPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.companyService.ResetCredentialPassword(c.Request.Context(), tenantID, companyID, credentialID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Password updated"})
}

// EnableCredential godoc
// @ID           enableCredential
// @Summary      Enable a credential
// @Tags         credentials
// @Param        id           path string true "Company ID" format(uuid)
// @Param        credentialId path string true "Credential ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials/{credentialId}/enable [post]
func (h *CompanyHandler) EnableCredential(c *gin.Context) {
	h.setCredentialActive(c, true)
}

// DisableCredential godoc
// @ID           disableCredential
// @Summary      Disable a credential
// @Tags         credentials
// @Param        id           path string true "Company ID" format(uuid)
// @Param        credentialId path string true "Credential ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials/{credentialId}/disable [post]
func (h *CompanyHandler) DisableCredential(c *gin.Context) {
	h.setCredentialActive(c, false)
}

func (h *CompanyHandler) setCredentialActive(c *gin.Context, active bool) {
	tenantID, companyID, credentialID, ok := h.credentialPath(c)
	if !ok {
		return
	}

	if err := h.companyService.SetCredentialActive(c.Request.Context(), tenantID, companyID, credentialID, active); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveCredential godoc
// @ID           removeCredential
// @Summary      Delete a credential
// @Tags         credentials
// @Param        id           path string true "Company ID" format(uuid)
// @Param        credentialId path string true "Credential ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /partners/companies/{id}/credentials/{credentialId} [delete]
func (h *CompanyHandler) RemoveCredential(c *gin.Context) {
	tenantID, companyID, credentialID, ok := h.credentialPath(c)
	if !ok {
		return
	}

	if err := h.companyService.RemoveCredential(c.Request.Context(), tenantID, companyID, credentialID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CompanyHandler) credentialPath(c *gin.Context) (tenantID, companyID, credentialID uuid.UUID, ok bool) {
	if tenantID, ok = h.tenantOrAbort(c); !ok {
		return
	}
	if companyID, ok = h.uuidParam(c, "id", "company"); !ok {
		return
	}
	credentialID, ok = h.uuidParam(c, "credentialId", "credential")
	return
}
