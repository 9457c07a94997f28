package query

import (
	"cmp"
	"slices"

	"github.com/mfenderov/aitools/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// SortKeys lists every supported key.
var SortKeys = []SortKey{SortRelevance, SortNewest, SortPopular, SortRating, SortName}

// ParseSortKey returns the key named by s, or SortRelevance and false when s
// is not a known key.
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, true
		}
	}
	return SortRelevance, false
}

// Sort orders tools in place. The sort is stable: equal keys keep their
// input order, and SortRelevance (or any unknown key) leaves the input
// order untouched.
func Sort(tools []models.Tool, key SortKey) {
	switch key {
	case SortName:
		c := newCollator()
		slices.SortStableFunc(tools, func(a, b models.Tool) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortNewest:
		slices.SortStableFunc(tools, compareNewest)
	case SortPopular, SortRating:
		slices.SortStableFunc(tools, func(a, b models.Tool) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		})
	}
}

// compareNewest orders by launch date descending. Tools without a
// parsable date sort after every dated tool.
func compareNewest(a, b models.Tool) int {
	at, aok := a.LaunchTime()
	bt, bok := b.LaunchTime()
	switch {
	case aok && bok:
		return bt.Compare(at)
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

// newCollator returns a collator for locale-aware name ordering. Collators
// keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// ResultCategories returns the distinct categories present in tools in
// collation order.
func ResultCategories(tools []models.Tool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tools {
		for _, c := range t.Categories {
			if c != "" && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	newCollator().SortStrings(out)
	return out
}
