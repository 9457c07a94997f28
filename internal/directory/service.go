// Package directory exposes the read-side entry points of the tools
// directory over whichever catalog snapshot is current.
package directory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mfenderov/aitools/internal/catalog"
	"github.com/mfenderov/aitools/internal/query"
	"github.com/mfenderov/aitools/pkg/models"
)

// DefaultFeaturedLimit is used when FeaturedTools is asked for limit <= 0.
const DefaultFeaturedLimit = 3

// Catalog yields the store to serve. *catalog.Store and *catalog.Holder
// both satisfy it.
type Catalog interface {
	Snapshot() *catalog.Store
}

// Service answers directory queries. Every call reads one snapshot, so a
// concurrent reload never mixes two catalogs within a single answer.
type Service struct {
	catalog Catalog
}

// New creates a service reading from c.
func New(c Catalog) *Service {
	return &Service{catalog: c}
}

func (s *Service) store() *catalog.Store {
	if st := s.catalog.Snapshot(); st != nil {
		return st
	}
	return catalog.New(nil)
}

// All returns every tool in ingestion order.
func (s *Service) All() []models.Tool {
	return s.store().All()
}

// SearchTools returns the tools matching q in catalog order. A blank
// query is not a search and yields no results.
func (s *Service) SearchTools(q string) []models.Tool {
	if strings.TrimSpace(q) == "" {
		return []models.Tool{}
	}
	return query.Search(s.store().All(), q)
}

// ToolsByCategory returns the tools carrying category. query.AllCategories
// returns the whole catalog.
func (s *Service) ToolsByCategory(category string) []models.Tool {
	return query.FilterByCategory(s.store().All(), category)
}

// FeaturedTools returns up to limit tools that have review text, most
// reviewed first. Ties keep catalog order.
func (s *Service) FeaturedTools(limit int) []models.Tool {
	return featured(s.store().All(), limit)
}

func featured(tools []models.Tool, limit int) []models.Tool {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	out := make([]models.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.TrimSpace(t.Reviews) != "" {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Tool) int {
		return cmp.Compare(b.ReviewCount(), a.ReviewCount())
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ToolBySlug looks a tool up by id, then by name slug.
func (s *Service) ToolBySlug(key string) (models.Tool, bool) {
	return s.store().GetBySlugOrID(strings.TrimSpace(key))
}

// RelatedTools returns up to limit featured tools other than id.
func (s *Service) RelatedTools(id string, limit int) []models.Tool {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	all := featured(s.store().All(), limit+1)
	out := make([]models.Tool, 0, limit)
	for _, t := range all {
		if t.ID != id && len(out) < limit {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the category set with per-category counts.
func (s *Service) Categories() []catalog.CategoryCount {
	return s.store().CategoryCounts()
}

// CategoryBySlug resolves a URL slug to its category name.
func (s *Service) CategoryBySlug(slug string) (string, bool) {
	return s.store().CategoryBySlug(slug)
}

// Query runs the full pipeline. A blank query lists the whole catalog.
func (s *Service) Query(p query.Params) query.Result {
	return query.Run(s.store().All(), p)
}

// Facets returns the categories present among the tools matching p,
// ignoring p's own category filter and paging.
func (s *Service) Facets(p query.Params) []string {
	return query.ResultCategories(query.Search(s.store().All(), p.Query))
}
