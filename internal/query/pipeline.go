// Package query implements the catalog query pipeline: text search,
// category filter, sort and pagination over an in-memory list of tools.
package query

import (
	"slices"
	"strings"

	"github.com/mfenderov/aitools/pkg/models"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "All"

// Search keeps tools whose name, description, any category or any feature
// contains q, ignoring case. A blank q returns tools unchanged.
func Search(tools []models.Tool, q string) []models.Tool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return tools
	}

	out := make([]models.Tool, 0, len(tools))
	for _, t := range tools {
		if Matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether lowerQuery, which must already be lower-cased,
// is a substring of any searchable field of t.
func Matches(t models.Tool, lowerQuery string) bool {
	if containsFold(t.Name, lowerQuery) || containsFold(t.Description, lowerQuery) {
		return true
	}
	for _, c := range t.Categories {
		if containsFold(c, lowerQuery) {
			return true
		}
	}
	for _, f := range t.Features {
		if containsFold(f, lowerQuery) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}

// FilterByCategory keeps tools that carry category exactly. An empty
// category or AllCategories returns tools unchanged.
func FilterByCategory(tools []models.Tool, category string) []models.Tool {
	if category == "" || category == AllCategories {
		return tools
	}

	out := make([]models.Tool, 0, len(tools))
	for _, t := range tools {
		if t.HasCategory(category) {
			out = append(out, t)
		}
	}
	return out
}

// Run applies search, category filter, sort and pagination in that order.
func Run(tools []models.Tool, p Params) Result {
	p = p.withDefaults()

	// Search and FilterByCategory may hand back the caller's slice, and
	// Sort works in place.
	matched := slices.Clone(FilterByCategory(Search(tools, p.Query), p.Category))
	Sort(matched, p.Sort)

	page := Paginate(matched, p.Page, p.PageSize)
	return Result{
		Items:      page.Items,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Params:     p,
	}
}

// Result is one page of a query.
type Result struct {
	Items      []models.Tool `json:"items"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Params     Params        `json:"-"`
}

// HasPrev reports whether a previous page exists.
func (r Result) HasPrev() bool {
	return r.Page > 1
}

// HasNext reports whether a following page exists.
func (r Result) HasNext() bool {
	return r.Page < r.TotalPages
}

// Window returns the page numbers a pager should show around the current
// page; see PageWindow.
func (r Result) Window(width int) []int {
	return PageWindow(r.Page, r.TotalPages, width)
}
