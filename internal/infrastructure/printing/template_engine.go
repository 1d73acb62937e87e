package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders html/template documents with formatting helpers
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithCurrency sets the symbol that formatMoney prints before amounts
func WithCurrency(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.funcMap["formatMoney"] = func(v interface{}) string {
			return symbol + formatMoneyRaw(v)
		}
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a template engine with the default helpers
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoneyRaw,
		"formatMoneyRaw": formatMoneyRaw,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatDecimal":  formatDecimal,
		"formatPercent":  formatPercent,
		"upper":          strings.ToUpper,
		"title":          titleCase,
		"default":        defaultFunc,
		"shortUUID":      shortUUID,
		"statusText":     statusText,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse compiles a named template with the engine helpers
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return tmpl, nil
}

// Execute runs a parsed template
func (e *TemplateEngine) Execute(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.Bytes(), nil
}

// RenderString parses and executes content in one step
func (e *TemplateEngine) RenderString(name, content string, data interface{}) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	out, err := e.Execute(tmpl, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoneyRaw formats with thousand separators and two decimals.
// Example: 1234.5 -> "1,234.50"
func formatMoneyRaw(v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")
	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + result.String() + "." + decPart
}

func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatDecimal(v interface{}, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

// formatPercent prints a rate already expressed in percent.
// Example: 12.5 -> "12.5%"
func formatPercent(v interface{}) string {
	return toDecimal(v).String() + "%"
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func defaultFunc(val, def interface{}) interface{} {
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	if val == nil {
		return def
	}
	return val
}

func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}

// statusText converts invoice statuses and payment methods to display text
func statusText(status string) string {
	switch status {
	case "draft":
		return "Draft"
	case "issued":
		return "Awaiting payment"
	case "paid":
		return "Paid"
	case "cancelled":
		return "Cancelled"
	case "external":
		return "Bank transfer"
	case "wallet":
		return "Wallet balance"
	}
	return titleCase(status)
}

func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v interface{}) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
