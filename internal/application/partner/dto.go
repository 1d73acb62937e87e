package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCompanyRequest represents a request to register a company
type CreateCompanyRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	TradeName   string     `json:"trade_name" binding:"max=200"`
	Document    string     `json:"document" binding:"required,min=1,max=30"`
	Type        string     `json:"type" binding:"required,oneof=client partner"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	Phone       string     `json:"phone" binding:"max=30"`
	Address     string     `json:"address" binding:"max=500"`
	ContactName string     `json:"contact_name" binding:"max=100"`
	Notes       string     `json:"notes" binding:"max=2000"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateCompanyRequest represents a partial update of a company profile
type UpdateCompanyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	TradeName   *string `json:"trade_name" binding:"omitempty,max=200"`
	Email       *string `json:"email" binding:"omitempty,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
}

// BlockCompanyRequest carries the reason a company is blocked
type BlockCompanyRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=client partner"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at balance"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// CredentialResponse represents a portal credential; the hash is never exposed
type CredentialResponse struct {
	ID                   uuid.UUID `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	Role                 string    `json:"role"`
	Active               bool      `json:"active"`
	LastPasswordChangeAt time.Time `json:"last_password_change_at"`
	CreatedAt            time.Time `json:"created_at"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenantID      uuid.UUID            `json:"tenant_id"`
	Name          string               `json:"name"`
	TradeName     string               `json:"trade_name"`
	Document      string               `json:"document"`
	Type          string               `json:"type"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	ContactName   string               `json:"contact_name"`
	Status        string               `json:"status"`
	BlockedReason string               `json:"blocked_reason,omitempty"`
	Balance       decimal.Decimal      `json:"balance"`
	Notes         string               `json:"notes"`
	Credentials   []CredentialResponse `json:"credentials"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// CompanyListResponse represents a list item for companies
type CompanyListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	TradeName string          `json:"trade_name"`
	Document  string          `json:"document"`
	Type      string          `json:"type"`
	Email     string          `json:"email"`
	Status    string          `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// AddCredentialRequest creates a portal login for a company
type AddCredentialRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=50"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
	Role            string `json:"role" binding:"required,oneof=owner manager viewer"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ResetCredentialPasswordRequest sets a new password on a credential
type ResetCredentialPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// WalletMovementRequest credits or debits a company wallet
type WalletMovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	Reference   string          `json:"reference" binding:"max=100"`
	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string     `json:"-"`
	OperatorID     *uuid.UUID `json:"-"`
	// Source defaults to MANUAL
	Source partner.WalletSourceType `json:"-"`
}

// StatementFilter narrows the wallet statement
type StatementFilter struct {
	Type     string     `form:"type" binding:"omitempty,oneof=CREDIT DEBIT credit debit"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"min=0"`
	PageSize int        `form:"page_size" binding:"min=0,max=100"`
}

// WalletTransactionResponse represents one statement line
type WalletTransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	SignedAmount  decimal.Decimal `json:"signed_amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference,omitempty"`
	SourceType    string          `json:"source_type"`
	SourceID      *uuid.UUID      `json:"source_id,omitempty"`
	OperatorID    *uuid.UUID      `json:"operator_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WalletSummaryResponse aggregates a company's wallet
type WalletSummaryResponse struct {
	CompanyID        uuid.UUID       `json:"company_id"`
	Balance          decimal.Decimal `json:"balance"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	TransactionCount int64           `json:"transaction_count"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:            c.ID,
		TenantID:      c.TenantID,
		Name:          c.Name,
		TradeName:     c.TradeName,
		Document:      c.Document,
		Type:          string(c.Type),
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		ContactName:   c.ContactName,
		Status:        string(c.Status),
		BlockedReason: c.BlockedReason,
		Balance:       c.Balance,
		Notes:         c.Notes,
		Credentials:   ToCredentialResponses(c.Credentials),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// ToCompanyListResponse converts a domain Company to CompanyListResponse
func ToCompanyListResponse(c *partner.Company) CompanyListResponse {
	return CompanyListResponse{
		ID:        c.ID,
		Name:      c.Name,
		TradeName: c.TradeName,
		Document:  c.Document,
		Type:      string(c.Type),
		Email:     c.Email,
		Status:    string(c.Status),
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
	}
}

// ToCredentialResponse converts a domain Credential to CredentialResponse
func ToCredentialResponse(c *partner.Credential) CredentialResponse {
	return CredentialResponse{
		ID:                   c.ID,
		Username:             c.Username,
		Email:                c.Email,
		Role:                 string(c.Role),
		Active:               c.Active,
		LastPasswordChangeAt: c.LastPasswordChangeAt,
		CreatedAt:            c.CreatedAt,
	}
}

// ToCredentialResponses converts a slice of credentials
func ToCredentialResponses(credentials []partner.Credential) []CredentialResponse {
	responses := make([]CredentialResponse, len(credentials))
	for i := range credentials {
		responses[i] = ToCredentialResponse(&credentials[i])
	}
	return responses
}

// ToWalletTransactionResponse converts a ledger entry
func ToWalletTransactionResponse(tx *partner.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:            tx.ID,
		CompanyID:     tx.CompanyID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		SignedAmount:  tx.SignedAmount(),
		BalanceBefore: tx.BalanceBefore,
		BalanceAfter:  tx.BalanceAfter,
		Description:   tx.Description,
		Reference:     tx.Reference,
		SourceType:    string(tx.SourceType),
		SourceID:      tx.SourceID,
		OperatorID:    tx.OperatorID,
		CreatedAt:     tx.CreatedAt,
	}
}

// StartTopUpRequest opens a card payment that credits the wallet once settled
type StartTopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	// IdempotencyKey comes from the Idempotency-Key header and is forwarded to the gateway
	IdempotencyKey string     `json:"-"`
	OperatorID     *uuid.UUID `json:"-"`
}

// TopUpResponse carries what the client needs to complete the card payment
type TopUpResponse struct {
	CompanyID    uuid.UUID       `json:"company_id"`
	PaymentID    string          `json:"payment_id"`
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
}

// NotificationResult reports what a payment notification did
type NotificationResult struct {
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	Processed     bool       `json:"processed"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	Message       string     `json:"message,omitempty"`
}
