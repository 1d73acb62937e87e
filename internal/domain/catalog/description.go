package catalog

import (
	"context"
	"fmt"
	"strings"
)

// DescriptionEnhancer rewrites a product description into a richer version
type DescriptionEnhancer interface {
	Enhance(ctx context.Context, product *Product) (string, error)
}

// TemplateEnhancer builds a structured description from the product's own data.
// It does no I/O and only checks ctx for cancellation.
type TemplateEnhancer struct{}

// NewTemplateEnhancer creates a TemplateEnhancer
func NewTemplateEnhancer() *TemplateEnhancer {
	return &TemplateEnhancer{}
}

// Enhance implements DescriptionEnhancer
func (e *TemplateEnhancer) Enhance(ctx context.Context, p *Product) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder

	summary := strings.TrimSpace(p.Description)
	if summary == "" {
		summary = fmt.Sprintf("%s is a %s service", p.Name, strings.ToLower(p.Category))
		if p.Area != "" {
			summary += " for the " + p.Area + " area"
		}
		summary += "."
	}
	b.WriteString(summary)

	if len(p.Tasks) > 0 {
		b.WriteString("\n\nWhat is included:\n")
		for i := range p.Tasks {
			t := &p.Tasks[i]
			fmt.Fprintf(&b, "- %s", t.Name)
			if h := t.TotalHours(); h.IsPositive() {
				fmt.Fprintf(&b, " (%sh)", h.String())
			}
			b.WriteString("\n")
			for _, s := range t.Steps {
				fmt.Fprintf(&b, "  - %s\n", s.Name)
			}
		}
	}

	if hours := p.TotalHours(); hours.IsPositive() {
		fmt.Fprintf(&b, "\nEstimated effort: %s hours.", hours.String())
	}
	if p.DeliveryDays > 0 {
		fmt.Fprintf(&b, "\nDelivery in up to %d business days.", p.DeliveryDays)
	}

	return strings.TrimSpace(b.String()), nil
}
