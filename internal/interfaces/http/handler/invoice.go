package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	billingapp "github.com/servicehub/admin/internal/application/billing"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @ID           createInvoice
// @Summary      Draft an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req billingapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = optionalUserID(c)

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        search     query string false "Invoice number"
// @Param        status     query string false "draft, issued, paid or cancelled"
// @Param        company_id query string false "Company ID" format(uuid)
// @Param        project_id query string false "Project ID" format(uuid)
// @Param        overdue    query bool   false "Only issued invoices past their due date"
// @Param        order_by   query string false "number, due_date, total or created_at"
// @Param        order_dir  query string false "asc or desc"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /billing/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter billingapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update a draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.UpdateInvoiceRequest true "Changes"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete a draft invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Issue godoc
// @ID           issueInvoice
// @Summary      Issue a draft invoice
// @Description  Assigns the next number of the issue month. The body is optional.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.IssueInvoiceRequest false "Issue date"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req billingapp.IssueInvoiceRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Issue(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Pay godoc
// @ID           payInvoice
// @Summary      Record an external payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.PayInvoiceRequest false "Payment time"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req billingapp.PayInvoiceRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Pay(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// PayWithWallet godoc
// @ID           payInvoiceWithWallet
// @Summary      Pay an issued invoice from the company wallet
// @Description  Debits the wallet and settles the invoice in one transaction
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/pay-with-wallet [post]
func (h *InvoiceHandler) PayWithWallet(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.PayWithWallet(c.Request.Context(), tenantID, id, optionalUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.CancelInvoiceRequest false "Reason"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req billingapp.CancelInvoiceRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// HTML godoc
// @ID           renderInvoiceHtml
// @Summary      Printable HTML of an invoice
// @Tags         invoices
// @Produce      html
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {string} string
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/html [get]
func (h *InvoiceHandler) HTML(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	page, err := h.invoiceService.RenderHTML(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// PDF godoc
// @ID           renderInvoicePdf
// @Summary      Download an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} file
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /billing/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "invoice")
	if !ok {
		return
	}

	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoice-%s.pdf\"", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
