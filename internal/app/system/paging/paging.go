// Package paging implements the page/per_page query convention used by
// the list endpoints. The console renders plain numbered pages, so
// offset paging is sufficient; list sizes here are bounded by the size
// of a mentoring program, not by web-scale data.
package paging

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the page size when per_page is absent or invalid.
	DefaultPerPage = 25
	// MaxPerPage caps client-requested page sizes.
	MaxPerPage = 200
)

// Page holds parsed pagination parameters.
type Page struct {
	Number  int64 // 1-based
	PerPage int64
}

// Parse reads page and per_page from the request query.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, PerPage: DefaultPerPage}
	if n, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.ParseInt(r.URL.Query().Get("per_page"), 10, 64); err == nil && n > 0 {
		if n > MaxPerPage {
			n = MaxPerPage
		}
		p.PerPage = n
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return (p.Number - 1) * p.PerPage
}
