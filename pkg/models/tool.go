package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PricingTier is the coarse pricing classification of a tool.
type PricingTier string

const (
	PricingFree     PricingTier = "Free"
	PricingFreemium PricingTier = "Freemium"
	PricingPaid     PricingTier = "Paid"
	PricingContact  PricingTier = "Contact for Pricing"
)

// Valid reports whether t is one of the four known tiers.
func (t PricingTier) Valid() bool {
	switch t {
	case PricingFree, PricingFreemium, PricingPaid, PricingContact:
		return true
	}
	return false
}

// Pricing holds the tier and an optional literal price such as "$20/month".
type Pricing struct {
	Tier  PricingTier `json:"type,omitempty"`
	Price string      `json:"price,omitempty"`
}

// Tool is one catalog entry.
type Tool struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Categories  CategoryList `json:"category"`
	Pricing     Pricing      `json:"pricing"`
	Website     string       `json:"website,omitempty"`
	Logo        string       `json:"logo,omitempty"`
	Emoji       string       `json:"emoji,omitempty"`
	Features    []string     `json:"features"`
	LaunchDate  string       `json:"launchDate,omitempty"`
	Reviews     string       `json:"reviews,omitempty"` // free text, e.g. "120 reviews"
	Rating      *float64     `json:"rating,omitempty"`
	About       string       `json:"about,omitempty"` // markdown long description
	SourceURL   string       `json:"source_url,omitempty"`
}

// Category returns the primary category, or "" when the tool is uncategorized.
func (t Tool) Category() string {
	if len(t.Categories) == 0 {
		return ""
	}
	return t.Categories[0]
}

// HasCategory reports whether category is one of the tool's categories.
// The comparison is exact.
func (t Tool) HasCategory(category string) bool {
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Slug returns the URL slug derived from the tool's name.
func (t Tool) Slug() string {
	return Slugify(t.Name)
}

// Popularity returns the popularity signal used for "popular" and "rating"
// ordering: the number parsed from Reviews, else Rating, else zero.
func (t Tool) Popularity() float64 {
	if n, ok := ParseReviews(t.Reviews); ok {
		return n
	}
	if t.Rating != nil {
		return *t.Rating
	}
	return 0
}

// ReviewCount returns the number parsed from Reviews, or zero.
func (t Tool) ReviewCount() float64 {
	n, _ := ParseReviews(t.Reviews)
	return n
}

// LaunchTime parses LaunchDate. Accepts RFC 3339 timestamps and plain dates.
func (t Tool) LaunchTime() (time.Time, bool) {
	s := strings.TrimSpace(t.LaunchDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	leadingFloat = regexp.MustCompile(`\d+(\.\d+)?`)
)

// Slugify lower-cases name, collapses every run of non-alphanumeric
// characters into one hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// ParseReviews extracts the first decimal number from a free-text
// popularity string such as "120 reviews" or "4.5 (10 reviews)".
func ParseReviews(text string) (float64, bool) {
	m := leadingFloat.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
