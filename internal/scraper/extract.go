package scraper

import (
	"bytes"
	"cmp"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/mfenderov/aitools/internal/processor"
	"github.com/mfenderov/aitools/pkg/models"
)

// ErrNoName is returned when a detail page yields no tool name.
var ErrNoName = errors.New("no tool name on page")

// Selectors are the CSS selectors used to read a tool detail page.
type Selectors struct {
	Name        string
	Description string
	Website     string
	Categories  string
	Pricing     string
	Features    string
	Rating      string
	Reviews     string
}

// DefaultSelectors match the directory's detail page markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Name:        "h1",
		Description: ".ai-desc",
		Website:     `a[href^="http"].website-button`,
		Categories:  ".ai-categories a",
		Pricing:     ".ai-pricing",
		Features:    ".ai-features li",
		Rating:      ".ai-rating",
		Reviews:     ".ai-reviews",
	}
}

func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	return Selectors{
		Name:        cmp.Or(s.Name, d.Name),
		Description: cmp.Or(s.Description, d.Description),
		Website:     cmp.Or(s.Website, d.Website),
		Categories:  cmp.Or(s.Categories, d.Categories),
		Pricing:     cmp.Or(s.Pricing, d.Pricing),
		Features:    cmp.Or(s.Features, d.Features),
		Rating:      cmp.Or(s.Rating, d.Rating),
		Reviews:     cmp.Or(s.Reviews, d.Reviews),
	}
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	priceRe    = regexp.MustCompile(`\$[0-9]+(\.[0-9]{2})?(/month|/year)?`)
)

// CleanText collapses whitespace runs to one space and trims the result.
func CleanText(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// ClassifyPricing maps free-form pricing text to a tier.
func ClassifyPricing(text string) models.PricingTier {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "free") && strings.Contains(lower, "paid"):
		return models.PricingFreemium
	case strings.Contains(lower, "free"):
		return models.PricingFree
	case strings.Contains(lower, "contact"):
		return models.PricingContact
	}
	return models.PricingPaid
}

// ExtractPrice returns the first dollar amount in text, such as "$20" or
// "$9.99/month", or "" when there is none.
func ExtractPrice(text string) string {
	return priceRe.FindString(text)
}

// LogoURL derives a clearbit logo URL from the tool's website. It returns
// "" when website has no host.
func LogoURL(website string) string {
	u, err := url.Parse(strings.TrimSpace(website))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return ""
	}
	return "https://logo.clearbit.com/" + host
}

// Extractor reads tool records from detail pages.
type Extractor struct {
	Selectors Selectors
	processor *processor.Processor
}

// NewExtractor creates an extractor. Empty selectors fall back to
// DefaultSelectors.
func NewExtractor(sel Selectors) *Extractor {
	return &Extractor{Selectors: sel.withDefaults(), processor: processor.New()}
}

// Extract builds a tool from one parsed detail page. raw is the page body
// the document was parsed from; it feeds the title and readability
// fallbacks. now supplies the launch date, which the page does not carry.
func (x *Extractor) Extract(doc *goquery.Selection, raw []byte, pageURL string, now time.Time) (models.Tool, error) {
	sel := x.Selectors

	name := CleanText(doc.Find(sel.Name).First().Text())
	if name == "" {
		name = x.processor.Title(string(raw))
	}
	if models.Slugify(name) == "" {
		return models.Tool{}, ErrNoName
	}

	descNode := doc.Find(sel.Description).First()
	description := CleanText(descNode.Text())
	if description == "" {
		description = x.fallbackDescription(raw, pageURL)
	}

	website := strings.TrimSpace(doc.Find(sel.Website).First().AttrOr("href", ""))
	pricingText := CleanText(doc.Find(sel.Pricing).First().Text())

	price := ExtractPrice(description)
	if price == "" {
		price = ExtractPrice(pricingText)
	}

	tool := models.Tool{
		ID:          models.Slugify(name),
		Name:        name,
		Description: description,
		Categories:  models.CategoryList(texts(doc.Find(sel.Categories))),
		Pricing:     models.Pricing{Tier: ClassifyPricing(pricingText), Price: price},
		Website:     website,
		Logo:        LogoURL(website),
		Features:    texts(doc.Find(sel.Features)),
		LaunchDate:  now.Format(time.DateOnly),
		Reviews:     CleanText(doc.Find(sel.Reviews).First().Text()),
		SourceURL:   pageURL,
	}

	if r := doc.Find(sel.Rating).First(); r.Length() > 0 {
		if v, ok := models.ParseReviews(r.Text()); ok {
			tool.Rating = &v
		}
	}

	if descNode.Length() > 0 {
		if inner, err := descNode.Html(); err == nil {
			if md, err := x.processor.Markdown(inner); err == nil {
				tool.About = md
			}
		}
	}

	return tool, nil
}

// fallbackDescription tries the page's meta description, then the
// readability excerpt.
func (x *Extractor) fallbackDescription(raw []byte, pageURL string) string {
	if d := x.processor.MetaDescription(string(raw)); d != "" {
		return CleanText(d)
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		return ""
	}
	return CleanText(article.Excerpt)
}

// texts returns the trimmed, non-empty text of every node in s.
func texts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, n *goquery.Selection) {
		if t := CleanText(n.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
