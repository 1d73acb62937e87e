package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"gorm.io/gorm"
)

// notFoundOr maps gorm's missing-row error to the domain sentinel
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// likePattern builds a case-insensitive LIKE pattern. Callers compare against LOWER(column).
func likePattern(search string) string {
	s := strings.ToLower(strings.TrimSpace(search))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// paginate applies offset and limit when the filter asks for a page
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// pruneChildren deletes the rows of a child table that belong to parentID but are not in keep
func pruneChildren(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

// stringFilter reads a non-empty string filter value
func stringFilter(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case uuid.UUID:
		return v.String(), v != uuid.Nil
	case *uuid.UUID:
		if v == nil {
			return "", false
		}
		return v.String(), *v != uuid.Nil
	}
	return "", false
}
