package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Stripe notifications are small; anything larger is refused unread
const maxWebhookPayloadSize = 64 << 10

// TopUpHandler handles card top-ups of company wallets
type TopUpHandler struct {
	BaseHandler
	service *partnerapp.TopUpService
}

// NewTopUpHandler creates a new TopUpHandler
func NewTopUpHandler(service *partnerapp.TopUpService) *TopUpHandler {
	return &TopUpHandler{service: service}
}

// WebhookResponse is the body returned to the payment provider
type WebhookResponse struct {
	Received  bool   `json:"received" example:"true"`
	EventID   string `json:"event_id,omitempty" example:"evt_1234567890"`
	EventType string `json:"event_type,omitempty" example:"payment_intent.succeeded"`
	Message   string `json:"message,omitempty" example:"Payment already credited"`
}

// StartTopUp godoc
// @ID           walletTopUp
// @Summary      Open a card payment for a wallet top-up
// @Description  Returns the client secret the browser confirms with Stripe. The wallet is credited when Stripe reports the payment as succeeded.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        id              path   string true  "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Client generated key, forwarded to Stripe"
// @Param        request         body   partnerapp.StartTopUpRequest true "Amount"
// @Success      201 {object} dto.Response{data=partnerapp.TopUpResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /partners/companies/{id}/wallet/top-up [post]
func (h *TopUpHandler) StartTopUp(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	companyID, ok := h.uuidParam(c, "id", "company")
	if !ok {
		return
	}

	var req partnerapp.StartTopUpRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	req.OperatorID = optionalUserID(c)

	session, err := h.service.Start(c.Request.Context(), tenantID, companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// StripeWebhook godoc
// @ID           stripeWebhook
// @Summary      Receive Stripe payment events
// @Description  Credits the wallet once per succeeded payment. Failures that a retry can fix answer 500 so Stripe redelivers.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe webhook signature"
// @Success      200 {object} WebhookResponse
// @Failure      401 {object} WebhookResponse
// @Failure      413 {object} WebhookResponse
// @Failure      500 {object} WebhookResponse
// @Failure      503 {object} WebhookResponse
// @Router       /webhooks/stripe [post]
func (h *TopUpHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, WebhookResponse{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, WebhookResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	result, err := h.service.HandleNotification(c.Request.Context(), payload, signature)
	switch {
	case errors.Is(err, partnerapp.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, WebhookResponse{Message: "Webhook signature verification failed"})
		return
	case errors.Is(err, partnerapp.ErrPaymentsDisabled):
		c.JSON(http.StatusServiceUnavailable, WebhookResponse{Message: "Card payments are not configured"})
		return
	case err != nil:
		logger.L(c.Request.Context()).Error("Payment notification failed", zap.Error(err))
		resp := WebhookResponse{Message: "Webhook could not be processed"}
		if result != nil {
			resp.EventID, resp.EventType = result.EventID, result.EventType
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   result.Message,
	})
}
