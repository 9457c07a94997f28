package query

import (
	"math"

	"github.com/mfenderov/aitools/pkg/models"
)

// Page is a slice of a result set plus the totals needed to render a pager.
type Page struct {
	Items      []models.Tool
	Total      int
	TotalPages int
}

// Paginate returns the 1-based page of tools. TotalPages is never below 1,
// and a page past the end yields no items. page < 1 is treated as 1 and
// size < 1 as DefaultPageSize.
func Paginate(tools []models.Tool, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	total := len(tools)
	totalPages := TotalPages(total, size)

	// Bounding page first keeps the offset below total.
	if total == 0 || page > totalPages {
		return Page{Items: []models.Tool{}, Total: total, TotalPages: totalPages}
	}
	start := (page - 1) * size
	end := start + min(size, total-start)

	return Page{Items: tools[start:end], Total: total, TotalPages: totalPages}
}

// TotalPages returns ceil(total/size), never below 1.
func TotalPages(total, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return max(1, n)
}

// Offset returns the index of the first item on page, saturating at
// math.MaxInt instead of wrapping.
func Offset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// PageWindow returns up to width consecutive page numbers centered on
// current and clamped to [1, total].
func PageWindow(current, total, width int) []int {
	if total < 1 || width < 1 {
		return nil
	}
	current = min(max(current, 1), total)

	start := max(1, current-width/2)
	end := min(total, start+width-1)
	if end-start < width-1 {
		start = max(1, end-width+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
