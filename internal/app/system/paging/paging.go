// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip returns the number of rows to skip for the given 1-based page.
func Skip(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * PageSize
}

// Pages returns the number of pages needed for total rows (at least 1).
func Pages(total int64) int {
	if total <= 0 {
		return 1
	}
	n := int((total + PageSize - 1) / PageSize)
	if n < 1 {
		n = 1
	}
	return n
}

// Window describes the pagination controls for a list page.
type Window struct {
	Page    int
	Pages   int
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

// NewWindow clamps page into [1, Pages(total)] and computes prev/next pages.
func NewWindow(page int, total int64) Window {
	pages := Pages(total)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return Window{
		Page:    page,
		Pages:   pages,
		Prev:    page - 1,
		Next:    page + 1,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}
