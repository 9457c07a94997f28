package scraper

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mfenderov/aitools/pkg/models"
)

func TestClassifyPricing(t *testing.T) {
	tests := []struct {
		text string
		want models.PricingTier
	}{
		{"Free + Paid plans", models.PricingFreemium},
		{"Free", models.PricingFree},
		{"100% FREE forever", models.PricingFree},
		{"Contact sales", models.PricingContact},
		{"$49/month", models.PricingPaid},
		{"", models.PricingPaid},
	}

	for _, tt := range tests {
		if got := ClassifyPricing(tt.text); got != tt.want {
			t.Errorf("ClassifyPricing(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Plans from $20/month for teams", "$20/month"},
		{"Costs $9.99 once", "$9.99"},
		{"$120/year or $12/month", "$120/year"},
		{"$5.5 is not two decimals", "$5"},
		{"no price here", ""},
	}

	for _, tt := range tests {
		if got := ExtractPrice(tt.text); got != tt.want {
			t.Errorf("ExtractPrice(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLogoURL(t *testing.T) {
	tests := []struct {
		website string
		want    string
	}{
		{"https://www.openai.com/chatgpt", "https://logo.clearbit.com/openai.com"},
		{"https://midjourney.com", "https://logo.clearbit.com/midjourney.com"},
		{"http://app.www.example.org:8080/", "https://logo.clearbit.com/app.www.example.org"},
		{"", ""},
		{"not a url", ""},
	}

	for _, tt := range tests {
		if got := LogoURL(tt.website); got != tt.want {
			t.Errorf("LogoURL(%q) = %q, want %q", tt.website, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Chat\n\t GPT  "); got != "Chat GPT" {
		t.Errorf("CleanText() = %q", got)
	}
}

func parse(t *testing.T, page string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Selection
}

var fixedNow = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func TestExtractor_Extract(t *testing.T) {
	page := detailHTML("Notion AI", "notion.so", "Productivity", "Contact us")

	x := NewExtractor(Selectors{})
	tool, err := x.Extract(parse(t, page), []byte(page), "https://dir.example/ai/notion-ai", fixedNow)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if tool.ID != "notion-ai" {
		t.Errorf("ID = %q, want notion-ai", tool.ID)
	}
	if tool.Description != "Notion AI does things. Plans from $20/month." {
		t.Errorf("Description = %q", tool.Description)
	}
	if tool.Category() != "Productivity" {
		t.Errorf("Categories = %v", tool.Categories)
	}
	if tool.Pricing.Tier != models.PricingContact {
		t.Errorf("Tier = %q", tool.Pricing.Tier)
	}
	if len(tool.Features) != 2 || tool.Features[1] != "Accurate" {
		t.Errorf("Features = %q", tool.Features)
	}
	if tool.Rating == nil || *tool.Rating != 4.5 {
		t.Errorf("Rating = %v", tool.Rating)
	}
	if tool.Reviews != "120 reviews" {
		t.Errorf("Reviews = %q", tool.Reviews)
	}
	if tool.Website != "https://www.notion.so/" || tool.Logo != "https://logo.clearbit.com/notion.so" {
		t.Errorf("Website/Logo = %q/%q", tool.Website, tool.Logo)
	}
	if !strings.Contains(tool.About, "Plans from $20/month.") {
		t.Errorf("About = %q", tool.About)
	}
	if tool.LaunchDate != "2025-01-02" {
		t.Errorf("LaunchDate = %q", tool.LaunchDate)
	}
}

func TestExtractor_Fallbacks(t *testing.T) {
	page := `<html><head>
		<title>Perplexity | Directory</title>
		<meta name="description" content="Answer engine with sources.">
	</head><body><p>Nothing structured here.</p></body></html>`

	tool, err := NewExtractor(Selectors{}).Extract(parse(t, page), []byte(page), "https://dir.example/ai/perplexity", fixedNow)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if tool.Name != "Perplexity" || tool.ID != "perplexity" {
		t.Errorf("Name/ID = %q/%q", tool.Name, tool.ID)
	}
	if tool.Description != "Answer engine with sources." {
		t.Errorf("Description = %q", tool.Description)
	}
	if tool.Logo != "" || tool.Website != "" {
		t.Errorf("missing website should leave logo empty, got %q", tool.Logo)
	}
	if tool.Pricing.Tier != models.PricingPaid {
		t.Errorf("missing pricing text should classify as Paid, got %q", tool.Pricing.Tier)
	}
	if tool.Rating != nil {
		t.Errorf("Rating = %v, want nil", *tool.Rating)
	}
	if tool.Features == nil || tool.Categories == nil {
		t.Error("list fields should be empty, not nil")
	}
}

func TestExtractor_CustomSelectors(t *testing.T) {
	page := `<html><body><h2 class="tool">Runway</h2><p class="blurb">Video editing.</p></body></html>`

	x := NewExtractor(Selectors{Name: "h2.tool", Description: "p.blurb"})
	tool, err := x.Extract(parse(t, page), []byte(page), "https://dir.example/ai/runway", fixedNow)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if tool.Name != "Runway" || tool.Description != "Video editing." {
		t.Errorf("got %q / %q", tool.Name, tool.Description)
	}
	if x.Selectors.Pricing != DefaultSelectors().Pricing {
		t.Error("unset selectors should keep their defaults")
	}
}

func TestExtractor_NoName(t *testing.T) {
	page := `<html><body><p>Empty</p></body></html>`

	_, err := NewExtractor(Selectors{}).Extract(parse(t, page), []byte(page), "https://dir.example/ai/x", fixedNow)
	if !errors.Is(err, ErrNoName) {
		t.Errorf("Extract() error = %v, want ErrNoName", err)
	}
}
