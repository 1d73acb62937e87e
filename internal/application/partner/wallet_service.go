package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is used when the service is built without a TTL
const DefaultIdempotencyTTL = 24 * time.Hour

// ErrDuplicateRequest is returned when an idempotency key was already used
var ErrDuplicateRequest = shared.NewDomainError("DUPLICATE_REQUEST", "A request with this idempotency key was already processed")

// WalletService moves money in and out of company wallets and reads the ledger
type WalletService struct {
	companyRepo    partner.CompanyRepository
	txRepo         partner.WalletTransactionRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWalletService creates a new WalletService. A nil idempotency store disables key checks.
func NewWalletService(
	companyRepo partner.CompanyRepository,
	txRepo partner.WalletTransactionRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
) *WalletService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = DefaultIdempotencyTTL
	}
	return &WalletService{
		companyRepo:    companyRepo,
		txRepo:         txRepo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WalletService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *WalletService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Credit adds money to a company wallet
func (s *WalletService) Credit(ctx context.Context, tenantID, companyID uuid.UUID, req WalletMovementRequest) (*WalletTransactionResponse, error) {
	return s.move(ctx, tenantID, companyID, partner.WalletTransactionTypeCredit, req)
}

// Debit withdraws money from a company wallet
func (s *WalletService) Debit(ctx context.Context, tenantID, companyID uuid.UUID, req WalletMovementRequest) (*WalletTransactionResponse, error) {
	return s.move(ctx, tenantID, companyID, partner.WalletTransactionTypeDebit, req)
}

func (s *WalletService) move(ctx context.Context, tenantID, companyID uuid.UUID, txType partner.WalletTransactionType, req WalletMovementRequest) (*WalletTransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", strings.ToLower(string(txType)))
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenantID.String(),
		telemetry.SpanAttrCompanyID, companyID.String(),
		telemetry.SpanAttrWalletTxType, string(txType),
		telemetry.SpanAttrAmount, req.Amount.InexactFloat64(),
	)

	claimed, err := s.claimKey(ctx, tenantID, companyID, req.IdempotencyKey)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	tx, err := s.apply(ctx, tenantID, companyID, txType, req)
	if err != nil {
		telemetry.RecordError(span, err)
		// nothing moved, so the client may retry with the same key
		s.releaseKey(ctx, claimed)
		return nil, err
	}

	s.logger.Info("Wallet movement recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("type", string(txType)),
		zap.String("amount", tx.Amount.String()),
		zap.String("balance_after", tx.BalanceAfter.String()),
	)

	response := ToWalletTransactionResponse(tx)
	return &response, nil
}

// apply loads the company, records the movement and persists both
func (s *WalletService) apply(ctx context.Context, tenantID, companyID uuid.UUID, txType partner.WalletTransactionType, req WalletMovementRequest) (*partner.WalletTransaction, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}

	var tx *partner.WalletTransaction
	if txType == partner.WalletTransactionTypeCredit {
		tx, err = company.Credit(req.Amount, req.Description)
	} else {
		tx, err = company.Debit(req.Amount, req.Description)
	}
	if err != nil {
		return nil, err
	}
	if req.Reference != "" {
		tx.WithReference(strings.TrimSpace(req.Reference))
	}
	if req.OperatorID != nil {
		tx.WithOperator(*req.OperatorID)
	}
	if req.Source != "" {
		tx.SourceType = req.Source
	}

	if err := s.companyRepo.SaveWithTransaction(ctx, company, tx); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, company); err != nil {
		s.logger.Warn("Failed to publish wallet events",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
	}
	return tx, nil
}

// claimKey atomically records the idempotency key and returns the stored
// key, empty when none was claimed. A key seen within the TTL is rejected.
func (s *WalletService) claimKey(ctx context.Context, tenantID, companyID uuid.UUID, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return "", nil
	}
	stored := "wallet:" + tenantID.String() + ":" + companyID.String() + ":" + key
	fresh, err := s.idempotency.MarkProcessed(ctx, stored, s.idempotencyTTL)
	if err != nil {
		return "", err
	}
	if !fresh {
		return "", ErrDuplicateRequest
	}
	return stored, nil
}

func (s *WalletService) releaseKey(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := s.idempotency.Release(ctx, stored); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("key", stored), zap.Error(err))
	}
}

// Statement returns one page of the company ledger, newest first
func (s *WalletService) Statement(ctx context.Context, tenantID, companyID uuid.UUID, filter StatementFilter) ([]WalletTransactionResponse, int64, error) {
	if _, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID); err != nil {
		return nil, 0, err
	}

	normalized := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	domainFilter := partner.WalletTransactionFilter{
		DateFrom: filter.DateFrom,
		DateTo:   endOfDay(filter.DateTo),
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}
	if filter.Type != "" {
		txType := partner.WalletTransactionType(strings.ToUpper(filter.Type))
		if !txType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown transaction type: "+filter.Type)
		}
		domainFilter.Type = &txType
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "date_to must not be before date_from")
	}

	transactions, total, err := s.txRepo.FindByCompany(ctx, tenantID, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]WalletTransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = ToWalletTransactionResponse(&transactions[i])
	}
	return responses, total, nil
}

// endOfDay makes a date_to bound include the whole day
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	end := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
	return &end
}

// Summary returns the current balance and lifetime totals of a company wallet
func (s *WalletService) Summary(ctx context.Context, tenantID, companyID uuid.UUID) (*WalletSummaryResponse, error) {
	company, err := s.companyRepo.FindByIDForTenant(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	summary, err := s.txRepo.Summarize(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}

	return &WalletSummaryResponse{
		CompanyID:        company.ID,
		Balance:          company.Balance,
		TotalCredits:     summary.TotalCredits,
		TotalDebits:      summary.TotalDebits,
		TransactionCount: summary.Count,
	}, nil
}
