package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the listing page size.
const DefaultPageSize = 24

// Params is the complete, immutable state of one catalog query. It
// round-trips through URL query parameters so it can travel as navigable
// state.
type Params struct {
	Query    string  `json:"q,omitempty"`
	Category string  `json:"category,omitempty"`
	Sort     SortKey `json:"sort,omitempty"`
	Page     int     `json:"page,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// Normalize returns p with its zero values replaced by defaults.
func (p Params) Normalize() Params {
	return p.withDefaults()
}

func (p Params) withDefaults() Params {
	if p.Sort == "" {
		p.Sort = SortRelevance
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// WithPage returns a copy of p pointing at page.
func (p Params) WithPage(page int) Params {
	p.Page = page
	return p
}

// Reset returns p with every filter cleared, keeping the page size.
func (p Params) Reset() Params {
	return Params{PageSize: p.PageSize}
}

// Filtered reports whether a text query or category filter is active.
func (p Params) Filtered() bool {
	return strings.TrimSpace(p.Query) != "" || (p.Category != "" && p.Category != AllCategories)
}

// ParseParams reads q, category, sort, page and page_size. Missing or
// malformed values fall back to their defaults; defaultSort applies when
// sort is absent or unknown.
func ParseParams(v url.Values, defaultSort SortKey) Params {
	p := Params{
		Query:    strings.TrimSpace(v.Get("q")),
		Category: v.Get("category"),
		Sort:     defaultSort,
	}
	if k, ok := ParseSortKey(v.Get("sort")); ok {
		p.Sort = k
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil {
		p.Page = n
	}
	if n, err := strconv.Atoi(v.Get("page_size")); err == nil {
		p.PageSize = n
	}
	return p.withDefaults()
}

// Values encodes p, omitting values equal to their defaults.
func (p Params) Values(defaultSort SortKey) url.Values {
	p = p.withDefaults()
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Category != "" && p.Category != AllCategories {
		v.Set("category", p.Category)
	}
	if p.Sort != defaultSort {
		v.Set("sort", string(p.Sort))
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize != DefaultPageSize {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return v
}
