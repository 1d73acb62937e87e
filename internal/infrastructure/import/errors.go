package csvimport

import (
	"fmt"
	"strings"
)

// Row error codes
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidNumber = "INVALID_NUMBER"
	CodeInvalidValue  = "INVALID_VALUE"
	CodeDuplicate     = "DUPLICATE"
	CodeMismatch      = "MISMATCH"
)

// RowError is a problem found in one cell or line of the file
type RowError struct {
	Line    int
	Column  string
	Code    string
	Message string
	Value   string
}

func (e RowError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "line %d", e.Line)
	if e.Column != "" {
		fmt.Fprintf(&sb, ", column %s", e.Column)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Value != "" {
		fmt.Fprintf(&sb, " (got %q)", e.Value)
	}
	return sb.String()
}

// ErrorCollection gathers row errors so a file is reported in one pass
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection keeps at most maxErrors errors; the rest are only counted
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 50
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Required records a missing mandatory value
func (ec *ErrorCollection) Required(line int, column string) {
	ec.Add(RowError{Line: line, Column: column, Code: CodeRequired, Message: "value is required"})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount includes errors dropped over the limit
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// Err returns nil without errors, otherwise an *ImportError
func (ec *ErrorCollection) Err() error {
	if ec.total == 0 {
		return nil
	}
	return &ImportError{Errors: ec.errors, Total: ec.total}
}

// ImportError reports every row error of a rejected file
type ImportError struct {
	Errors []RowError
	Total  int
}

func (e *ImportError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", e.Total)
	if e.Total > len(e.Errors) {
		fmt.Fprintf(&sb, " (showing first %d)", len(e.Errors))
	}
	for _, re := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(re.Error())
	}
	return sb.String()
}
