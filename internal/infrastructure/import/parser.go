// Package csvimport reads catalog spreadsheets exported as CSV into seed
// documents for the migrate seed command.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned for content that is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file is not UTF-8 encoded")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// Parser reads a CSV file whose first line names the columns
type Parser struct {
	delimiter rune
	headers   []string
	index     map[string]int
	reader    *csv.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*Parser)

// WithDelimiter forces the field delimiter. Without it the delimiter is
// detected from the header line, comma or semicolon.
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser strips a UTF-8 BOM, checks the encoding and reads the header.
// Header names are matched case-insensitively.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{index: make(map[string]int)}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	if bom, err := buf.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = buf.Discard(3)
	}

	const sniffSize = 4096
	head, err := buf.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return nil, ErrEmptyFile
	}
	if !validPrefix(head) {
		return nil, ErrInvalidEncoding
	}
	if p.delimiter == 0 {
		p.delimiter = detectDelimiter(head)
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	p.reader.Comment = '#'

	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = name
		if name != "" {
			p.index[name] = i
		}
	}
	if len(p.index) == 0 {
		return nil, ErrMissingHeader
	}
	return p, nil
}

// validPrefix is utf8.Valid that tolerates a rune cut at the end of the peeked window
func validPrefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}

func detectDelimiter(head []byte) rune {
	line, _, _ := bytes.Cut(head, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the names of required that the file lacks
func (p *Parser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.index[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line of the file
type Row struct {
	Line   int
	values map[string]string
}

// Get returns the trimmed value of a column, empty when absent
func (r *Row) Get(column string) string {
	return r.values[column]
}

// IsEmpty reports whether every cell of the row is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	line, _ := p.reader.FieldPos(0)

	row := &Row{Line: line, values: make(map[string]string, len(p.index))}
	for name, i := range p.index {
		if i < len(record) {
			row.values[name] = strings.TrimSpace(record[i])
		}
	}
	return row, nil
}

// ReadAll returns the remaining rows, skipping blank ones
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
}
