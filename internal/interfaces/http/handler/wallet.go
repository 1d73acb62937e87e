package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
)

// IdempotencyKeyHeader lets clients retry wallet movements safely
const IdempotencyKeyHeader = "Idempotency-Key"

// WalletHandler handles the company wallet ledger
type WalletHandler struct {
	BaseHandler
	walletService *partnerapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *partnerapp.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Summary godoc
// @ID           walletSummary
// @Summary      Wallet balance and totals
// @Tags         wallet
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.WalletSummaryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/wallet [get]
func (h *WalletHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	companyID, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	summary, err := h.walletService.Summary(c.Request.Context(), tenantID, companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Credit godoc
// @ID           walletCredit
// @Summary      Add balance
// @Description  A repeated Idempotency-Key within its TTL is answered with 409
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        id              path   string true  "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Client generated key"
// @Param        request         body   partnerapp.WalletMovementRequest true "Movement"
// @Success      201 {object} dto.Response{data=partnerapp.WalletTransactionResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/wallet/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	h.move(c, h.walletService.Credit)
}

// Debit godoc
// @ID           walletDebit
// @Summary      Remove balance
// @Description  The balance never goes negative. A repeated Idempotency-Key within its TTL is answered with 409.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        id              path   string true  "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Client generated key"
// @Param        request         body   partnerapp.WalletMovementRequest true "Movement"
// @Success      201 {object} dto.Response{data=partnerapp.WalletTransactionResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/wallet/debit [post]
func (h *WalletHandler) Debit(c *gin.Context) {
	h.move(c, h.walletService.Debit)
}

func (h *WalletHandler) move(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID, partnerapp.WalletMovementRequest) (*partnerapp.WalletTransactionResponse, error)) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	companyID, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var req partnerapp.WalletMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	req.OperatorID = optionalUserID(c)

	tx, err := op(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Statement godoc
// @ID           walletStatement
// @Summary      Wallet statement, newest first
// @Tags         wallet
// @Produce      json
// @Param        id        path  string true  "Company ID" format(uuid)
// @Param        type      query string false "CREDIT or DEBIT"
// @Param        date_from query string false "From date (YYYY-MM-DD)"
// @Param        date_to   query string false "To date (YYYY-MM-DD), inclusive"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.WalletTransactionResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/wallet/statement [get]
func (h *WalletHandler) Statement(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	companyID, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var filter partnerapp.StatementFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	lines, total, err := h.walletService.Statement(c.Request.Context(), tenantID, companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, lines, total, filter.Page, filter.PageSize)
}
