package persistence

import (
	"fmt"
	"strings"

	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// NotDeleted filters out soft-deleted rows. Entities embed
// shared.SoftDeletable instead of gorm.DeletedAt so deletions carry the
// deleting user; this scope replaces gorm's automatic filter.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// orderClause builds a safe ORDER BY from the filter. OrderBy is matched
// against the caller's column allowlist; anything else falls back to
// created_at to keep user input out of the SQL.
func orderClause(filter shared.Filter, allowed ...string) string {
	column := "created_at"
	for _, c := range allowed {
		if filter.OrderBy == c {
			column = c
			break
		}
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// paginate applies page-based offsets from a shared.Filter
func paginate(db *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}
