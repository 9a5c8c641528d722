package shared

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// Page describes a normalised pagination window.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageFromRequest reads page/limit query parameters with sane bounds.
func PageFromRequest(r *http.Request) Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Page{Number: page, Limit: limit}
}
