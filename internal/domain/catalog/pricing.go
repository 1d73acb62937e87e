package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceTable holds the surcharge percentages applied on top of labor cost.
// Values are percentages: 10 means 10%.
type PriceTable struct {
	QualificationFeePct decimal.Decimal
	TaxPct              decimal.Decimal
	OperationalFeePct   decimal.Decimal
}

// DefaultPriceTable returns the standard surcharges
func DefaultPriceTable() PriceTable {
	return PriceTable{
		QualificationFeePct: decimal.NewFromInt(10),
		TaxPct:              decimal.NewFromInt(15),
		OperationalFeePct:   decimal.NewFromInt(8),
	}
}

// RateSource resolves the hourly rate of a specialty at a seniority tier
type RateSource interface {
	Rate(specialtyID uuid.UUID, level Seniority) (decimal.Decimal, bool)
}

// SpecialtyRates is an in-memory RateSource keyed by specialty ID
type SpecialtyRates map[uuid.UUID]Specialty

// NewSpecialtyRates indexes the given specialties
func NewSpecialtyRates(specialties []Specialty) SpecialtyRates {
	rates := make(SpecialtyRates, len(specialties))
	for _, s := range specialties {
		rates[s.ID] = s
	}
	return rates
}

// Rate implements RateSource
func (r SpecialtyRates) Rate(specialtyID uuid.UUID, level Seniority) (decimal.Decimal, bool) {
	s, ok := r[specialtyID]
	if !ok {
		return decimal.Zero, false
	}
	return s.RateFor(level), true
}

// PriceBreakdown is the itemized result of an automatic price calculation
type PriceBreakdown struct {
	Hours            decimal.Decimal `json:"hours"`
	BaseCost         decimal.Decimal `json:"base_cost"`
	QualificationFee decimal.Decimal `json:"qualification_fee"`
	Taxes            decimal.Decimal `json:"taxes"`
	OperationalFee   decimal.Decimal `json:"operational_fee"`
	Total            decimal.Decimal `json:"total"`
}

// PriceCalculator derives product prices from task estimates and specialty rates
type PriceCalculator struct {
	table PriceTable
}

// NewPriceCalculator creates a calculator using the given surcharges
func NewPriceCalculator(table PriceTable) *PriceCalculator {
	return &PriceCalculator{table: table}
}

// Table returns the surcharges in use
func (c *PriceCalculator) Table() PriceTable {
	return c.table
}

// StepValue is rate × hours. A missing or unknown specialty, or non-positive hours, is worth zero.
func (c *PriceCalculator) StepValue(step TaskStep, rates RateSource) decimal.Decimal {
	if step.SpecialtyID == nil || !step.Hours.IsPositive() || rates == nil {
		return decimal.Zero
	}
	rate, ok := rates.Rate(*step.SpecialtyID, step.Seniority)
	if !ok || !rate.IsPositive() {
		return decimal.Zero
	}
	return rate.Mul(step.Hours)
}

// TaskValue sums the value of the task's steps
func (c *PriceCalculator) TaskValue(task Task, rates RateSource) decimal.Decimal {
	if !task.HasSteps() {
		return c.StepValue(task.asStep(), rates)
	}
	total := decimal.Zero
	for _, step := range task.Steps {
		total = total.Add(c.StepValue(step, rates))
	}
	return total
}

// AutomaticPrice sums all tasks and adds each surcharge as a percentage of the base cost
func (c *PriceCalculator) AutomaticPrice(tasks []Task, rates RateSource) PriceBreakdown {
	base := decimal.Zero
	hours := decimal.Zero
	for _, t := range tasks {
		base = base.Add(c.TaskValue(t, rates))
		hours = hours.Add(t.TotalHours())
	}

	qualification := percentOf(base, c.table.QualificationFeePct)
	taxes := percentOf(base, c.table.TaxPct)
	operational := percentOf(base, c.table.OperationalFeePct)

	return PriceBreakdown{
		Hours:            hours,
		BaseCost:         base.Round(2),
		QualificationFee: qualification,
		Taxes:            taxes,
		OperationalFee:   operational,
		Total:            base.Round(2).Add(qualification).Add(taxes).Add(operational),
	}
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred).Round(2)
}
