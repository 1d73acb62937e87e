package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrPaymentsDisabled is returned when no card gateway is configured
	ErrPaymentsDisabled = shared.NewDomainError("PAYMENTS_DISABLED", "Card payments are not configured")
	// ErrInvalidSignature is returned for gateway notifications that fail verification
	ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Payment notification signature is invalid")
)

// PaymentGateway creates card payments and verifies the notifications the
// provider sends once they settle
type PaymentGateway interface {
	CreateTopUp(ctx context.Context, intent TopUpIntent) (*TopUpSession, error)
	// ParseNotification verifies signature and decodes payload. Failed
	// verification wraps ErrInvalidSignature.
	ParseNotification(payload []byte, signature string) (*PaymentNotification, error)
}

// TopUpIntent is what the gateway needs to open a card payment
type TopUpIntent struct {
	TenantID       uuid.UUID
	CompanyID      uuid.UUID
	OperatorID     *uuid.UUID
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
}

// TopUpSession is an open card payment the client completes with the provider
type TopUpSession struct {
	PaymentID    string
	ClientSecret string
	Amount       decimal.Decimal
	Currency     string
	Status       string
}

// PaymentNotification is a verified provider event. Only settled payments
// have Settled set; other event types are acknowledged and ignored.
type PaymentNotification struct {
	EventID    string
	EventType  string
	Settled    bool
	PaymentID  string
	TenantID   uuid.UUID
	CompanyID  uuid.UUID
	OperatorID *uuid.UUID
	Amount     decimal.Decimal
	Currency   string
}

// TopUpPolicy bounds card top-ups
type TopUpPolicy struct {
	Currency string
	Min      decimal.Decimal
	Max      decimal.Decimal
}

// TopUpService opens card payments for wallet top-ups and credits the wallet
// when the provider confirms them
type TopUpService struct {
	companyRepo partner.CompanyRepository
	txRepo      partner.WalletTransactionRepository
	wallet      *WalletService
	gateway     PaymentGateway
	policy      TopUpPolicy
	logger      *zap.Logger
}

// NewTopUpService creates a TopUpService. A nil gateway makes every call fail with ErrPaymentsDisabled.
func NewTopUpService(
	companyRepo partner.CompanyRepository,
	txRepo partner.WalletTransactionRepository,
	wallet *WalletService,
	gateway PaymentGateway,
	policy TopUpPolicy,
) *TopUpService {
	return &TopUpService{
		companyRepo: companyRepo,
		txRepo:      txRepo,
		wallet:      wallet,
		gateway:     gateway,
		policy:      policy,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *TopUpService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Enabled reports whether a gateway is configured
func (s *TopUpService) Enabled() bool {
	return s.gateway != nil
}

// Start opens a card payment for req.Amount. The wallet is credited later,
// when the settled payment is notified.
func (s *TopUpService) Start(ctx context.Context, tenantID, companyID uuid.UUID, req StartTopUpRequest) (*TopUpResponse, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := s.checkAmount(req.Amount); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company.IsBlocked() {
		return nil, shared.NewDomainError("COMPANY_BLOCKED", "Blocked companies cannot move funds")
	}

	session, err := s.gateway.CreateTopUp(ctx, TopUpIntent{
		TenantID:       tenantID,
		CompanyID:      companyID,
		OperatorID:     req.OperatorID,
		Amount:         req.Amount,
		Description:    "Wallet top-up for " + company.Name,
		IdempotencyKey: strings.TrimSpace(req.IdempotencyKey),
	})
	if err != nil {
		s.logger.Error("Failed to open card payment",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Card top-up opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("payment_id", session.PaymentID),
		zap.String("amount", session.Amount.String()),
	)
	return &TopUpResponse{
		CompanyID:    companyID,
		PaymentID:    session.PaymentID,
		ClientSecret: session.ClientSecret,
		Amount:       session.Amount,
		Currency:     session.Currency,
		Status:       session.Status,
	}, nil
}

func (s *TopUpService) checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive with at most 2 decimal places")
	}
	if (s.policy.Min.IsPositive() && amount.LessThan(s.policy.Min)) ||
		(s.policy.Max.IsPositive() && amount.GreaterThan(s.policy.Max)) {
		return shared.NewDomainError("INVALID_AMOUNT",
			"Top-up must be between "+s.policy.Min.StringFixed(2)+" and "+s.policy.Max.StringFixed(2))
	}
	return nil
}

// HandleNotification verifies a provider event and credits the wallet for a
// settled payment. Each payment id is credited once; redeliveries report
// Processed with a message. Events that can never be applied are
// acknowledged without error so the provider stops retrying.
func (s *TopUpService) HandleNotification(ctx context.Context, payload []byte, signature string) (*NotificationResult, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	n, err := s.gateway.ParseNotification(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected payment notification", zap.Error(err))
		return nil, err
	}

	result := &NotificationResult{EventID: n.EventID, EventType: n.EventType}
	log := s.logger.With(
		zap.String("event_id", n.EventID),
		zap.String("event_type", n.EventType),
		zap.String("payment_id", n.PaymentID),
	)

	switch {
	case !n.Settled:
		result.Message = "Event type not handled"
		return result, nil
	case n.TenantID == uuid.Nil || n.CompanyID == uuid.Nil:
		log.Warn("Settled payment carries no company")
		result.Message = "Payment is not a wallet top-up"
		return result, nil
	case !strings.EqualFold(n.Currency, s.policy.Currency):
		log.Warn("Settled payment in another currency", zap.String("currency", n.Currency))
		result.Message = "Payment currency does not match the wallet currency"
		return result, nil
	}

	credited, err := s.txRepo.ExistsByReference(ctx, n.TenantID, partner.WalletSourceCard, n.PaymentID)
	if err != nil {
		return result, err
	}
	if credited {
		result.Processed = true
		result.Message = "Payment already credited"
		return result, nil
	}

	tx, err := s.wallet.Credit(ctx, n.TenantID, n.CompanyID, WalletMovementRequest{
		Amount:      n.Amount,
		Description: "Card top-up",
		Reference:   n.PaymentID,
		OperatorID:  n.OperatorID,
		Source:      partner.WalletSourceCard,
	})
	if err != nil {
		// a retry may succeed after a conflict; other business errors will not
		if domainErr, ok := shared.AsDomainError(err); ok && !errors.Is(err, shared.ErrConcurrencyConflict) {
			log.Error("Settled payment could not be credited", zap.Error(err))
			result.Message = domainErr.Message
			return result, nil
		}
		return result, err
	}

	log.Info("Card top-up credited",
		zap.String("company_id", n.CompanyID.String()),
		zap.String("amount", tx.Amount.String()),
	)
	result.Processed = true
	result.TransactionID = &tx.ID
	return result, nil
}
