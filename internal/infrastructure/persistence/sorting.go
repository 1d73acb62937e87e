package persistence

import (
	"strings"

	"github.com/servicehub/admin/internal/domain/shared"
)

// sortColumns whitelists the columns a list query may order by. Client
// input never reaches ORDER BY unless it names one of them exactly.
type sortColumns map[string]bool

// newSortColumns always allows id and the audit timestamps
func newSortColumns(columns ...string) sortColumns {
	s := sortColumns{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		s[c] = true
	}
	return s
}

// column returns requested when whitelisted, fallback otherwise
func (s sortColumns) column(requested, fallback string) string {
	if c := strings.TrimSpace(requested); s[c] {
		return c
	}
	return fallback
}

// orderBy builds the ORDER BY clause for filter, with id as the last tiebreaker
func (s sortColumns) orderBy(filter shared.Filter, fallback string) string {
	col := s.column(filter.OrderBy, fallback)
	clause := col + " " + sortDirection(filter.OrderDir)
	if col != "id" {
		clause += ", id ASC"
	}
	return clause
}

// sortDirection accepts asc in any case; everything else sorts descending
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	specialtySort     = newSortColumns("code", "name", "status", "junior_rate", "mid_rate", "senior_rate")
	companySort       = newSortColumns("name", "document", "type", "status", "balance")
	projectSort       = newSortColumns("code", "name", "status", "start_date", "due_date", "budget")
	invoiceSort       = newSortColumns("number", "status", "issue_date", "due_date", "total")
	qualificationSort = newSortColumns("status", "seniority", "decided_at")
)
