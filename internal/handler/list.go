package handler

import (
	"net/http"
	"strconv"

	"cumulus/internal/domain/repositories"
)

// parseListOptions reads pagination and ordering from query parameters:
// page, page_size, sort (name|size|created_at|updated_at), order (asc|desc).
// Absent or malformed values fall back to defaults rather than erroring.
func parseListOptions(r *http.Request) repositories.ListOptions {
	q := r.URL.Query()

	opts := repositories.ListOptions{
		SortKey:    q.Get("sort"),
		Descending: q.Get("order") == "desc",
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = page
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil {
		opts.PageSize = size
	}
	return opts.Normalize()
}

// parentFolderID reads the optional parent_id query parameter; absent or
// empty means the root level.
func parentFolderID(r *http.Request) *string {
	if id := r.URL.Query().Get("parent_id"); id != "" {
		return &id
	}
	return nil
}
