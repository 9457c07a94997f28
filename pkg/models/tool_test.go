package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "ChatGPT", "chatgpt"},
		{"spaces", "Stable Diffusion XL", "stable-diffusion-xl"},
		{"punctuation run", "Copy.ai -- Pro!", "copy-ai-pro"},
		{"leading and trailing", "  (Beta) Notion AI  ", "beta-notion-ai"},
		{"digits kept", "GPT-4o Mini", "gpt-4o-mini"},
		{"non ascii dropped", "Café Bot", "caf-bot"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseReviews(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"120 reviews", 120, true},
		{"4.5 (10 reviews)", 4.5, true},
		{"rated 3 of 5", 3, true},
		{"no reviews yet", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseReviews(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseReviews(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTool_Popularity(t *testing.T) {
	rating := 4.2

	tests := []struct {
		name string
		tool Tool
		want float64
	}{
		{"reviews text wins", Tool{Reviews: "500 reviews", Rating: &rating}, 500},
		{"falls back to rating", Tool{Rating: &rating}, 4.2},
		{"unparsable reviews uses rating", Tool{Reviews: "n/a", Rating: &rating}, 4.2},
		{"nothing is zero", Tool{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tool.Popularity(); got != tt.want {
				t.Errorf("Popularity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTool_LaunchTime(t *testing.T) {
	if _, ok := (Tool{}).LaunchTime(); ok {
		t.Error("empty launch date should not parse")
	}
	if _, ok := (Tool{LaunchDate: "last spring"}).LaunchTime(); ok {
		t.Error("free text launch date should not parse")
	}

	ts, ok := Tool{LaunchDate: "2024-03-01"}.LaunchTime()
	if !ok || ts.Year() != 2024 || ts.Month() != 3 {
		t.Errorf("LaunchTime() = %v, %v", ts, ok)
	}

	if _, ok := (Tool{LaunchDate: "2024-03-01T10:00:00Z"}).LaunchTime(); !ok {
		t.Error("RFC 3339 launch date should parse")
	}
}

func TestTool_Category(t *testing.T) {
	tool := Tool{Categories: CategoryList{"Image Generation", "Art"}}
	if got := tool.Category(); got != "Image Generation" {
		t.Errorf("Category() = %q", got)
	}
	if !tool.HasCategory("Art") || tool.HasCategory("art") {
		t.Error("HasCategory should match exactly")
	}
	if got := (Tool{}).Category(); got != "" {
		t.Errorf("uncategorized Category() = %q, want empty", got)
	}
}

func TestDecodeTool_ScalarAndListCategory(t *testing.T) {
	scalar, _, err := DecodeTool([]byte(`{"name":"ChatGPT","description":"d","category":"Chatbot"}`))
	if err != nil {
		t.Fatalf("DecodeTool() error = %v", err)
	}
	if len(scalar.Categories) != 1 || scalar.Categories[0] != "Chatbot" {
		t.Errorf("scalar category = %v", scalar.Categories)
	}

	list, _, err := DecodeTool([]byte(`{"name":"Midjourney","description":"d","category":["Image Generation",""," Art "]}`))
	if err != nil {
		t.Fatalf("DecodeTool() error = %v", err)
	}
	if len(list.Categories) != 2 || list.Categories[1] != "Art" {
		t.Errorf("list category = %v, want [Image Generation Art]", list.Categories)
	}

	empty, _, _ := DecodeTool([]byte(`{"name":"X","description":"d","category":""}`))
	if empty.Categories == nil || len(empty.Categories) != 0 {
		t.Errorf("empty category should decode to an empty list, got %#v", empty.Categories)
	}
}

func TestDecodeTool_CoercesWrongTypes(t *testing.T) {
	data := `{
		"id": 42,
		"name": "Tool",
		"description": "desc",
		"reviews": 120,
		"rating": "4.5 stars",
		"features": "single feature",
		"price": "$10/month",
		"pricing": {"type": "Freemium"}
	}`

	tool, issues, err := DecodeTool([]byte(data))
	if err != nil {
		t.Fatalf("DecodeTool() error = %v", err)
	}

	if tool.ID != "42" {
		t.Errorf("ID = %q, want 42", tool.ID)
	}
	if tool.Reviews != "120" {
		t.Errorf("Reviews = %q, want 120", tool.Reviews)
	}
	if tool.Rating == nil || *tool.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", tool.Rating)
	}
	if len(tool.Features) != 1 || tool.Features[0] != "single feature" {
		t.Errorf("Features = %v", tool.Features)
	}
	if tool.Pricing.Tier != PricingFreemium || tool.Pricing.Price != "$10/month" {
		t.Errorf("Pricing = %+v", tool.Pricing)
	}
	if len(issues) < 3 {
		t.Errorf("expected coercion issues to be reported, got %v", issues)
	}
}

func TestDecodeTool_ReportsMissingFields(t *testing.T) {
	tool, issues, err := DecodeTool([]byte(`{"description":"only a description","launchDate":"soon","pricing":{"type":"Cheap"}}`))
	if err != nil {
		t.Fatalf("DecodeTool() error = %v", err)
	}
	if tool.Features == nil {
		t.Error("Features should default to an empty list")
	}
	if tool.Pricing.Tier != "" {
		t.Errorf("unknown tier should be dropped, got %q", tool.Pricing.Tier)
	}

	var fields []string
	for _, i := range issues {
		fields = append(fields, i.Field)
	}
	joined := strings.Join(fields, ",")
	for _, want := range []string{"name", "launchDate", "pricing.type"} {
		if !strings.Contains(joined, want) {
			t.Errorf("issues %v should mention %q", fields, want)
		}
	}
}

func TestDecodeTool_RejectsNonObject(t *testing.T) {
	if _, _, err := DecodeTool([]byte(`"just a string"`)); err == nil {
		t.Error("DecodeTool() should fail for non-object input")
	}
}

func TestTool_JSONFieldNames(t *testing.T) {
	tool := Tool{
		ID:         "chatgpt",
		Name:       "ChatGPT",
		Categories: CategoryList{"Chatbot"},
		Pricing:    Pricing{Tier: PricingFreemium},
		Features:   []string{},
		LaunchDate: "2022-11-30",
	}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	for _, field := range []string{`"id"`, `"name"`, `"category":["Chatbot"]`, `"pricing":{"type":"Freemium"}`, `"launchDate"`} {
		if !strings.Contains(jsonStr, field) {
			t.Errorf("JSON should contain %s, got: %s", field, jsonStr)
		}
	}

	var decoded Tool
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded.Category() != "Chatbot" || decoded.Pricing.Tier != PricingFreemium {
		t.Errorf("decoded = %+v", decoded)
	}
}
