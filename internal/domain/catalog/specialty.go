package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SpecialtyStatus represents the status of a specialty
type SpecialtyStatus string

const (
	SpecialtyStatusActive   SpecialtyStatus = "active"
	SpecialtyStatusInactive SpecialtyStatus = "inactive"
)

// Specialty is a skill category with hourly rates per seniority tier.
// Product tasks and steps reference specialties to derive their cost.
type Specialty struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	JuniorRate  decimal.Decimal
	MidRate     decimal.Decimal
	SeniorRate  decimal.Decimal
	Status      SpecialtyStatus
}

// NewSpecialty creates a new active specialty with the given rates
func NewSpecialty(tenantID uuid.UUID, code, name string, junior, mid, senior decimal.Decimal) (*Specialty, error) {
	if err := validateSpecialtyCode(code); err != nil {
		return nil, err
	}
	if err := validateSpecialtyName(name); err != nil {
		return nil, err
	}
	if err := validateRates(junior, mid, senior); err != nil {
		return nil, err
	}

	s := &Specialty{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		JuniorRate:          junior,
		MidRate:             mid,
		SeniorRate:          senior,
		Status:              SpecialtyStatusActive,
	}

	s.AddDomainEvent(NewSpecialtyCreatedEvent(s))

	return s, nil
}

// Update changes the descriptive fields
func (s *Specialty) Update(name, description string) error {
	if err := validateSpecialtyName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.IncrementVersion()

	return nil
}

// SetRates replaces all three hourly rates
func (s *Specialty) SetRates(junior, mid, senior decimal.Decimal) error {
	if err := validateRates(junior, mid, senior); err != nil {
		return err
	}
	if s.JuniorRate.Equal(junior) && s.MidRate.Equal(mid) && s.SeniorRate.Equal(senior) {
		return nil
	}

	s.JuniorRate = junior
	s.MidRate = mid
	s.SeniorRate = senior
	s.IncrementVersion()

	s.AddDomainEvent(NewSpecialtyRatesChangedEvent(s))

	return nil
}

// RateFor returns the hourly rate for a tier. Unknown tiers cost nothing.
func (s *Specialty) RateFor(level Seniority) decimal.Decimal {
	switch level {
	case SeniorityJunior:
		return s.JuniorRate
	case SeniorityMid:
		return s.MidRate
	case SenioritySenior:
		return s.SeniorRate
	}
	return decimal.Zero
}

// Activate makes the specialty selectable again
func (s *Specialty) Activate() error {
	if s.Status == SpecialtyStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Specialty is already active")
	}
	s.Status = SpecialtyStatusActive
	s.IncrementVersion()
	return nil
}

// Deactivate hides the specialty from new tasks; existing tasks keep pricing with it
func (s *Specialty) Deactivate() error {
	if s.Status == SpecialtyStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Specialty is already inactive")
	}
	s.Status = SpecialtyStatusInactive
	s.IncrementVersion()
	return nil
}

// IsActive returns true if the specialty is active
func (s *Specialty) IsActive() bool {
	return s.Status == SpecialtyStatusActive
}

func validateSpecialtyCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Specialty code cannot be empty")
	}
	if len(code) > 30 {
		return shared.NewDomainError("INVALID_CODE", "Specialty code cannot exceed 30 characters")
	}
	for _, r := range code {
		if !isCodeRune(r) {
			return shared.NewDomainError("INVALID_CODE", "Specialty code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateSpecialtyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Specialty name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Specialty name cannot exceed 100 characters")
	}
	return nil
}

func validateRates(junior, mid, senior decimal.Decimal) error {
	if junior.IsNegative() || mid.IsNegative() || senior.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rates cannot be negative")
	}
	if junior.GreaterThan(mid) || mid.GreaterThan(senior) {
		return shared.NewDomainError("INVALID_RATE", "Hourly rates must not decrease from junior to mid to senior")
	}
	return nil
}

func isCodeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
}
