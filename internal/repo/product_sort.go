package repo

import (
	"fmt"
	"strings"
)

const (
	DefaultSort = "id"
	DefaultDir  = "desc"
)

// sortableColumns is the allow-list of columns that may appear in ORDER BY.
var sortableColumns = map[string]struct{}{
	"id":         {},
	"title":      {},
	"price":      {},
	"created_at": {},
	"updated_at": {},
}

// SortColumn returns the lower-cased column when it is sortable, DefaultSort otherwise.
func SortColumn(sort string) string {
	col := strings.ToLower(strings.TrimSpace(sort))
	if _, ok := sortableColumns[col]; ok {
		return col
	}
	return DefaultSort
}

// SortDirection returns "asc" for any casing of asc and "desc" for everything else.
func SortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "asc"
	}
	return DefaultDir
}

// orderByClause is safe to interpolate: both parts come from fixed sets.
// id desc is always the tiebreaker so pages are stable.
func orderByClause(sort, dir string) string {
	return fmt.Sprintf("ORDER BY %s %s, id DESC", SortColumn(sort), strings.ToUpper(SortDirection(dir)))
}
