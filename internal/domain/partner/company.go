package partner

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CompanyType distinguishes clients buying services from partners delivering them
type CompanyType string

const (
	CompanyTypeClient  CompanyType = "client"
	CompanyTypePartner CompanyType = "partner"
)

// IsValid reports whether the type is known
func (t CompanyType) IsValid() bool {
	return t == CompanyTypeClient || t == CompanyTypePartner
}

// CompanyStatus represents the status of a company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
	CompanyStatusBlocked  CompanyStatus = "blocked"
)

// Company is a client or partner account with portal credentials and a prepaid wallet
type Company struct {
	shared.TenantAggregateRoot
	Name          string
	TradeName     string
	Document      string
	Type          CompanyType
	Email         string
	Phone         string
	Address       string
	ContactName   string
	Status        CompanyStatus
	BlockedReason string
	Balance       decimal.Decimal
	Notes         string
	Credentials   []Credential
}

// NewCompany creates an active company with an empty wallet
func NewCompany(tenantID uuid.UUID, name, document string, companyType CompanyType) (*Company, error) {
	name, err := normalizeCompanyName(name)
	if err != nil {
		return nil, err
	}
	document, err = NormalizeDocument(document)
	if err != nil {
		return nil, err
	}
	if companyType == "" {
		companyType = CompanyTypeClient
	}
	if !companyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Company type must be client or partner")
	}

	c := &Company{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Document:            document,
		Type:                companyType,
		Status:              CompanyStatusActive,
		Balance:             decimal.Zero,
		Credentials:         make([]Credential, 0),
	}

	c.AddDomainEvent(NewCompanyCreatedEvent(c))

	return c, nil
}

// Update changes the profile. The document is immutable after creation.
func (c *Company) Update(name, tradeName string) error {
	name, err := normalizeCompanyName(name)
	if err != nil {
		return err
	}

	c.Name = name
	c.TradeName = strings.TrimSpace(tradeName)
	c.IncrementVersion()

	c.AddDomainEvent(NewCompanyUpdatedEvent(c))

	return nil
}

// SetContact sets the contact details. Empty values clear the field.
func (c *Company) SetContact(contactName, email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
		}
	}
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}

	c.ContactName = strings.TrimSpace(contactName)
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes
func (c *Company) SetNotes(notes string) {
	c.Notes = notes
	c.IncrementVersion()
}

// Activate re-enables an inactive or blocked company
func (c *Company) Activate() error {
	if c.Status == CompanyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Company is already active")
	}
	c.changeStatus(CompanyStatusActive)
	c.BlockedReason = ""
	return nil
}

// Deactivate disables the company
func (c *Company) Deactivate() error {
	if c.Status == CompanyStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Company is already inactive")
	}
	c.changeStatus(CompanyStatusInactive)
	return nil
}

// Block suspends the company. A blocked company cannot move money.
func (c *Company) Block(reason string) error {
	if c.Status == CompanyStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Company is already blocked")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Block reason is required")
	}
	c.changeStatus(CompanyStatusBlocked)
	c.BlockedReason = reason
	return nil
}

func (c *Company) changeStatus(to CompanyStatus) {
	from := c.Status
	c.Status = to
	c.IncrementVersion()
	c.AddDomainEvent(NewCompanyStatusChangedEvent(c, from, to))
}

// IsBlocked returns true if the company is blocked
func (c *Company) IsBlocked() bool {
	return c.Status == CompanyStatusBlocked
}

// Credit adds funds to the wallet and returns the ledger entry
func (c *Company) Credit(amount decimal.Decimal, description string) (*WalletTransaction, error) {
	if err := c.checkWalletMovement(amount); err != nil {
		return nil, err
	}

	before := c.Balance
	c.Balance = c.Balance.Add(amount)
	c.IncrementVersion()

	tx := newWalletTransaction(c, WalletTransactionTypeCredit, amount, before, c.Balance, description)
	c.AddDomainEvent(NewWalletBalanceChangedEvent(c, tx))

	return tx, nil
}

// Debit removes funds from the wallet. The balance may reach zero but never go below it.
func (c *Company) Debit(amount decimal.Decimal, description string) (*WalletTransaction, error) {
	if err := c.checkWalletMovement(amount); err != nil {
		return nil, err
	}
	if c.Balance.LessThan(amount) {
		return nil, shared.NewDomainError("INSUFFICIENT_BALANCE", "Insufficient balance")
	}

	before := c.Balance
	c.Balance = c.Balance.Sub(amount)
	c.IncrementVersion()

	tx := newWalletTransaction(c, WalletTransactionTypeDebit, amount, before, c.Balance, description)
	c.AddDomainEvent(NewWalletBalanceChangedEvent(c, tx))

	return tx, nil
}

func (c *Company) checkWalletMovement(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot have more than 2 decimal places")
	}
	if c.IsBlocked() {
		return shared.NewDomainError("COMPANY_BLOCKED", "Blocked companies cannot move funds")
	}
	return nil
}

func normalizeCompanyName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return "", shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	// Casers are stateful, one per call
	return cases.Title(language.Und, cases.NoLower).String(name), nil
}

// NormalizeDocument strips formatting from a tax document and upper-cases it
func NormalizeDocument(document string) (string, error) {
	var b strings.Builder
	for _, r := range document {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r == '.', r == '-', r == '/', r == ' ':
		default:
			return "", shared.NewDomainError("INVALID_DOCUMENT", "Document contains invalid characters")
		}
	}
	out := b.String()
	if len(out) < 5 || len(out) > 20 {
		return "", shared.NewDomainError("INVALID_DOCUMENT", "Document must have between 5 and 20 characters")
	}
	return out, nil
}
