package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletTransactionType is the direction of a wallet movement
type WalletTransactionType string

const (
	WalletTransactionTypeCredit WalletTransactionType = "CREDIT"
	WalletTransactionTypeDebit  WalletTransactionType = "DEBIT"
)

// IsValid reports whether the type is known
func (t WalletTransactionType) IsValid() bool {
	return t == WalletTransactionTypeCredit || t == WalletTransactionTypeDebit
}

// WalletSourceType identifies what caused a wallet movement
type WalletSourceType string

const (
	WalletSourceManual  WalletSourceType = "MANUAL"
	WalletSourceInvoice WalletSourceType = "INVOICE"
	// WalletSourceCard is a card top-up; Reference holds the gateway payment id
	WalletSourceCard WalletSourceType = "CARD"
)

// WalletTransaction is an immutable statement line. Corrections are new transactions.
type WalletTransaction struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CompanyID     uuid.UUID
	Type          WalletTransactionType
	Amount        decimal.Decimal // always positive, direction given by Type
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	Reference     string
	SourceType    WalletSourceType
	SourceID      *uuid.UUID
	OperatorID    *uuid.UUID
	CreatedAt     time.Time
}

func newWalletTransaction(c *Company, txType WalletTransactionType, amount, before, after decimal.Decimal, description string) *WalletTransaction {
	return &WalletTransaction{
		ID:            uuid.New(),
		TenantID:      c.TenantID,
		CompanyID:     c.ID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
		SourceType:    WalletSourceManual,
		CreatedAt:     time.Now(),
	}
}

// WithSource links the transaction to the document that caused it
func (t *WalletTransaction) WithSource(sourceType WalletSourceType, sourceID uuid.UUID) *WalletTransaction {
	t.SourceType = sourceType
	t.SourceID = &sourceID
	return t
}

// WithReference sets an external reference such as a receipt number
func (t *WalletTransaction) WithReference(reference string) *WalletTransaction {
	t.Reference = reference
	return t
}

// WithOperator records the user who performed the movement
func (t *WalletTransaction) WithOperator(operatorID uuid.UUID) *WalletTransaction {
	if operatorID != uuid.Nil {
		t.OperatorID = &operatorID
	}
	return t
}

// SignedAmount is positive for credits and negative for debits
func (t *WalletTransaction) SignedAmount() decimal.Decimal {
	if t.Type == WalletTransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// WalletTransactionFilter narrows a statement query
type WalletTransactionFilter struct {
	Type     *WalletTransactionType
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// WalletSummary aggregates a company's statement
type WalletSummary struct {
	CompanyID    uuid.UUID
	Balance      decimal.Decimal
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	Count        int64
}
