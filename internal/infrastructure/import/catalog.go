package csvimport

import (
	"io"
	"strconv"
	"strings"

	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
)

// Specialty sheet columns
var specialtyColumns = []string{"code", "name"}

// Product sheet columns; one row per task, product columns may be left blank
// on the rows after the first one of a product
var productColumns = []string{"code", "name", "category"}

// ReadSpecialties reads a specialty sheet with the columns code, name,
// description, junior_rate, mid_rate and senior_rate
func ReadSpecialties(r io.Reader, opts ...ParserOption) ([]migration.SpecialtySeed, error) {
	rows, err := readSheet(r, specialtyColumns, opts)
	if err != nil {
		return nil, err
	}

	errs := NewErrorCollection(0)
	seen := make(map[string]int)
	out := make([]migration.SpecialtySeed, 0, len(rows))
	for _, row := range rows {
		code := strings.ToUpper(row.Get("code"))
		if code == "" {
			errs.Required(row.Line, "code")
		} else if first, dup := seen[code]; dup {
			errs.Add(RowError{Line: row.Line, Column: "code", Code: CodeDuplicate,
				Message: "duplicate of line " + strconv.Itoa(first), Value: code})
		} else {
			seen[code] = row.Line
		}
		if row.Get("name") == "" {
			errs.Required(row.Line, "name")
		}

		rates := make([]decimal.Decimal, 0, 3)
		for _, column := range []string{"junior_rate", "mid_rate", "senior_rate"} {
			d, ok := amount(errs, row, column)
			if ok {
				rates = append(rates, d)
			}
		}

		s := migration.SpecialtySeed{
			Code:        code,
			Name:        row.Get("name"),
			Description: row.Get("description"),
		}
		if len(rates) == 3 {
			s.JuniorRate, s.MidRate, s.SeniorRate = rates[0].String(), rates[1].String(), rates[2].String()
		}
		out = append(out, s)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadProducts reads a product sheet with one row per task. Columns: code,
// name, category, area, description, delivery_days, tags (separated by |),
// task, specialty (code), seniority and hours. Rows sharing a code form one
// product, in the order the codes first appear.
func ReadProducts(r io.Reader, opts ...ParserOption) ([]migration.ProductSeed, error) {
	rows, err := readSheet(r, productColumns, opts)
	if err != nil {
		return nil, err
	}

	errs := NewErrorCollection(0)
	index := make(map[string]int)
	var out []migration.ProductSeed
	for _, row := range rows {
		code := strings.ToUpper(row.Get("code"))
		if code == "" {
			errs.Required(row.Line, "code")
			continue
		}

		i, known := index[code]
		if known {
			checkSameProduct(errs, row, out[i])
		} else {
			i = len(out)
			index[code] = i
			out = append(out, productFromRow(errs, row, code))
		}

		if task, ok := taskFromRow(errs, row); ok {
			out[i].Tasks = append(out[i].Tasks, task)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func readSheet(r io.Reader, required []string, opts []ParserOption) ([]*Row, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if missing := p.MissingHeaders(required...); len(missing) > 0 {
		errs := NewErrorCollection(0)
		for _, column := range missing {
			errs.Add(RowError{Line: 1, Column: column, Code: CodeRequired, Message: "column is missing from the header"})
		}
		return nil, errs.Err()
	}
	return p.ReadAll()
}

// productFromRow reads the product columns of the first row of a product
func productFromRow(errs *ErrorCollection, row *Row, code string) migration.ProductSeed {
	for _, column := range []string{"name", "category"} {
		if row.Get(column) == "" {
			errs.Required(row.Line, column)
		}
	}

	p := migration.ProductSeed{
		Code:        code,
		Name:        row.Get("name"),
		Description: row.Get("description"),
		Category:    row.Get("category"),
		Area:        row.Get("area"),
	}
	if raw := row.Get("delivery_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			errs.Add(RowError{Line: row.Line, Column: "delivery_days", Code: CodeInvalidNumber,
				Message: "must be a whole number of days", Value: raw})
		}
		p.DeliveryDays = days
	}
	for _, tag := range strings.Split(row.Get("tags"), "|") {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}
	return p
}

// checkSameProduct rejects continuation rows that repeat product columns
// with different values
func checkSameProduct(errs *ErrorCollection, row *Row, p migration.ProductSeed) {
	fields := []struct{ column, want string }{
		{"name", p.Name},
		{"category", p.Category},
		{"area", p.Area},
	}
	for _, f := range fields {
		if got := row.Get(f.column); got != "" && !strings.EqualFold(got, f.want) {
			errs.Add(RowError{Line: row.Line, Column: f.column, Code: CodeMismatch,
				Message: "differs from the first row of product " + p.Code, Value: got})
		}
	}
}

func taskFromRow(errs *ErrorCollection, row *Row) (migration.TaskSeed, bool) {
	name := row.Get("task")
	if name == "" {
		if row.Get("hours") != "" || row.Get("specialty") != "" {
			errs.Required(row.Line, "task")
		}
		return migration.TaskSeed{}, false
	}

	task := migration.TaskSeed{Name: name, Specialty: strings.ToUpper(row.Get("specialty"))}
	ok := true
	if raw := row.Get("seniority"); raw != "" {
		level, valid := catalog.ParseSeniority(raw)
		if !valid {
			errs.Add(RowError{Line: row.Line, Column: "seniority", Code: CodeInvalidValue,
				Message: "must be junior, mid or senior", Value: raw})
			ok = false
		}
		task.Seniority = string(level)
	}
	if hours, valid := amount(errs, row, "hours"); valid {
		task.Hours = hours.String()
	} else {
		ok = false
	}
	return task, ok
}

// amount parses a non-negative decimal cell. Blank is zero and a decimal
// comma is accepted ("65,50").
func amount(errs *ErrorCollection, row *Row, column string) (decimal.Decimal, bool) {
	raw := row.Get(column)
	if raw == "" {
		return decimal.Zero, true
	}
	normalized := raw
	if strings.Contains(raw, ",") && !strings.Contains(raw, ".") {
		normalized = strings.Replace(raw, ",", ".", 1)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		errs.Add(RowError{Line: row.Line, Column: column, Code: CodeInvalidNumber, Message: "not a number", Value: raw})
		return decimal.Zero, false
	}
	if d.IsNegative() {
		errs.Add(RowError{Line: row.Line, Column: column, Code: CodeInvalidNumber, Message: "cannot be negative", Value: raw})
		return decimal.Zero, false
	}
	return d, true
}
