// Package catalog holds the immutable in-memory tool catalog and the
// snapshot file it is loaded from.
package catalog

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/mfenderov/aitools/pkg/models"
)

// CategoryCount is one entry of the derived category set.
type CategoryCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Store is a read-only view over one catalog snapshot. It is never mutated
// after New returns, so it is safe for concurrent use.
type Store struct {
	tools  []models.Tool
	byID   map[string]int
	bySlug map[string]int
}

// New builds a store from tools in ingestion order. Records without an id
// get one derived from their name; records with neither are dropped, as are
// later duplicates of an id.
func New(tools []models.Tool) *Store {
	s := &Store{
		tools:  make([]models.Tool, 0, len(tools)),
		byID:   make(map[string]int, len(tools)),
		bySlug: make(map[string]int, len(tools)),
	}

	for i, t := range tools {
		t = normalize(t)
		if t.ID == "" {
			slog.Warn("dropping catalog record without id or name", "index", i)
			continue
		}
		if _, dup := s.byID[t.ID]; dup {
			slog.Warn("dropping duplicate catalog record", "id", t.ID, "index", i)
			continue
		}

		s.byID[t.ID] = len(s.tools)
		if slug := t.Slug(); slug != "" {
			if _, taken := s.bySlug[slug]; !taken {
				s.bySlug[slug] = len(s.tools)
			}
		}
		s.tools = append(s.tools, t)
	}

	return s
}

func normalize(t models.Tool) models.Tool {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		t.ID = models.Slugify(t.Name)
	}
	if t.Name == "" && t.ID != "" {
		slog.Warn("catalog record has no name", "id", t.ID)
	}
	if t.Features == nil {
		t.Features = []string{}
	}
	if t.Categories == nil {
		t.Categories = models.CategoryList{}
	}
	return t
}

// Snapshot returns s. It lets a bare Store stand in wherever a reloadable
// catalog source is expected.
func (s *Store) Snapshot() *Store {
	return s
}

// Len returns the number of tools in the store.
func (s *Store) Len() int {
	return len(s.tools)
}

// All returns every tool in ingestion order. The slice is a copy.
func (s *Store) All() []models.Tool {
	return slices.Clone(s.tools)
}

// GetByID returns the tool with the exact id.
func (s *Store) GetByID(id string) (models.Tool, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Tool{}, false
	}
	return s.tools[i], true
}

// GetBySlugOrID tries an exact id match first, then a match against the
// slug of each tool's name.
func (s *Store) GetBySlugOrID(key string) (models.Tool, bool) {
	if key == "" {
		return models.Tool{}, false
	}
	if t, ok := s.GetByID(key); ok {
		return t, true
	}
	i, ok := s.bySlug[strings.ToLower(key)]
	if !ok {
		return models.Tool{}, false
	}
	return s.tools[i], true
}

// Categories returns the distinct non-empty categories in order of first
// appearance.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.tools {
		for _, c := range t.Categories {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// CategoryCounts returns every category with the number of tools in it,
// most popular first. Ties keep first-appearance order.
func (s *Store) CategoryCounts() []CategoryCount {
	counts := make(map[string]int)
	for _, t := range s.tools {
		seen := make(map[string]bool, len(t.Categories))
		for _, c := range t.Categories {
			if c != "" && !seen[c] {
				seen[c] = true
				counts[c]++
			}
		}
	}

	names := s.Categories()
	out := make([]CategoryCount, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryCount{
			Name:  name,
			Slug:  models.Slugify(name),
			Count: counts[name],
		})
	}
	slices.SortStableFunc(out, func(a, b CategoryCount) int {
		return b.Count - a.Count
	})
	return out
}

// TopCategories returns at most n entries of CategoryCounts.
func (s *Store) TopCategories(n int) []CategoryCount {
	counts := s.CategoryCounts()
	if n >= 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// CategoryBySlug maps a URL slug such as "image-generation" back to the
// category name as it appears in the catalog.
func (s *Store) CategoryBySlug(slug string) (string, bool) {
	slug = models.Slugify(slug)
	if slug == "" {
		return "", false
	}
	for _, c := range s.Categories() {
		if models.Slugify(c) == slug {
			return c, true
		}
	}
	return "", false
}
