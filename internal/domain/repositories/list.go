package repositories

// Sort keys accepted by listing operations. Implementations must whitelist
// against these; anything else falls back to SortByName.
const (
	SortByName      = "name"
	SortBySize      = "size"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
)

// ListOptions controls pagination and ordering of listing operations.
// Page is 1-based; a PageSize of zero or less disables pagination and
// returns every row. Out-of-range pages yield an empty slice, not an error.
type ListOptions struct {
	Page       int
	PageSize   int
	SortKey    string
	Descending bool
}

// Normalize clamps the options to sane values.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	switch o.SortKey {
	case SortByName, SortBySize, SortByCreatedAt, SortByUpdatedAt:
	default:
		o.SortKey = SortByName
	}
	return o
}

// Offset returns the row offset implied by Page and PageSize.
func (o ListOptions) Offset() int {
	if o.PageSize <= 0 {
		return 0
	}
	return (o.Page - 1) * o.PageSize
}

// Paged reports whether pagination is in effect.
func (o ListOptions) Paged() bool {
	return o.PageSize > 0
}
