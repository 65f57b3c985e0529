package postgres

import (
	"fmt"

	"cumulus/internal/domain/repositories"
)

// orderClause builds an ORDER BY from a whitelisted sort column. The id
// tie-break keeps pagination stable when the sort key has duplicates.
func orderClause(opts repositories.ListOptions, columns map[string]string) string {
	col, ok := columns[opts.SortKey]
	if !ok {
		col = columns[repositories.SortByName]
	}
	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", col, dir)
}

// limitClause builds LIMIT/OFFSET; unpaged listings get no clause.
func limitClause(opts repositories.ListOptions) string {
	if !opts.Paged() {
		return ""
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", opts.PageSize, opts.Offset())
}
