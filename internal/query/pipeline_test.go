package query

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"testing"

	"github.com/mfenderov/aitools/pkg/models"
)

func sampleTools() []models.Tool {
	return []models.Tool{
		{ID: "chatgpt", Name: "ChatGPT", Description: "Conversational assistant", Categories: models.CategoryList{"Chatbot"}, Features: []string{"Text generation"}, Reviews: "1243", LaunchDate: "2022-11-30"},
		{ID: "midjourney", Name: "Midjourney", Description: "AI image generator", Categories: models.CategoryList{"Image Generation"}, Features: []string{"Art"}, Reviews: "800", LaunchDate: "2022-07-12"},
		{ID: "copilot", Name: "Copilot", Description: "Pair programmer", Categories: models.CategoryList{"Code", "Productivity"}, Features: []string{"Autocomplete"}},
		{ID: "dall-e", Name: "DALL-E", Description: "Creates pictures from text", Categories: models.CategoryList{"Image Generation"}, Reviews: "950 reviews", LaunchDate: "2023-09-20"},
	}
}

func ids(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	tools := sampleTools()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank returns input", "  ", []string{"chatgpt", "midjourney", "copilot", "dall-e"}},
		{"matches description", "image", []string{"midjourney", "dall-e"}},
		{"case insensitive name", "CHATGPT", []string{"chatgpt"}},
		{"matches feature", "autocomplete", []string{"copilot"}},
		{"matches any category", "productivity", []string{"copilot"}},
		{"no match", "spreadsheet", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(tools, tt.query))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_ResultsAreMembers(t *testing.T) {
	tools := sampleTools()
	for _, q := range []string{"a", "gen", "text", "pair"} {
		for _, got := range Search(tools, q) {
			if !Matches(got, q) {
				t.Errorf("Search(%q) returned %q which does not match", q, got.ID)
			}
			if !slices.ContainsFunc(tools, func(x models.Tool) bool { return x.ID == got.ID }) {
				t.Errorf("Search(%q) returned %q which is not in the input", q, got.ID)
			}
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	tools := sampleTools()

	for _, c := range []string{"", AllCategories} {
		if got := FilterByCategory(tools, c); len(got) != len(tools) {
			t.Errorf("FilterByCategory(%q) should be identity, got %d tools", c, len(got))
		}
	}

	got := ids(FilterByCategory(tools, "Image Generation"))
	if !slices.Equal(got, []string{"midjourney", "dall-e"}) {
		t.Errorf("FilterByCategory(Image Generation) = %v", got)
	}
	if got := FilterByCategory(tools, "image generation"); len(got) != 0 {
		t.Errorf("category match must be exact, got %v", ids(got))
	}
	if got := ids(FilterByCategory(tools, "Productivity")); !slices.Equal(got, []string{"copilot"}) {
		t.Errorf("secondary category should match, got %v", got)
	}
}

func TestSort_Name(t *testing.T) {
	tools := append(sampleTools(), models.Tool{ID: "chatgpt-2", Name: "ChatGPT"})
	Sort(tools, SortName)

	want := []string{"chatgpt", "chatgpt-2", "copilot", "dall-e", "midjourney"}
	if got := ids(tools); !slices.Equal(got, want) {
		t.Errorf("Sort(name) = %v, want %v", got, want)
	}
}

func TestSort_Newest(t *testing.T) {
	tools := sampleTools()
	tools = append(tools, models.Tool{ID: "broken", Name: "Broken", LaunchDate: "someday"})
	Sort(tools, SortNewest)

	want := []string{"dall-e", "chatgpt", "midjourney", "copilot", "broken"}
	if got := ids(tools); !slices.Equal(got, want) {
		t.Errorf("Sort(newest) = %v, want %v", got, want)
	}
}

func TestSort_Popular(t *testing.T) {
	rating := 4.5
	tools := sampleTools()
	tools[2].Rating = &rating
	Sort(tools, SortPopular)

	want := []string{"chatgpt", "dall-e", "midjourney", "copilot"}
	if got := ids(tools); !slices.Equal(got, want) {
		t.Errorf("Sort(popular) = %v, want %v", got, want)
	}
}

func TestSort_RelevanceKeepsOrder(t *testing.T) {
	tools := sampleTools()
	before := ids(tools)
	Sort(tools, SortRelevance)
	Sort(tools, SortKey("bogus"))
	if got := ids(tools); !slices.Equal(got, before) {
		t.Errorf("relevance should keep input order, got %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey("rating"); !ok || k != SortRating {
		t.Errorf("ParseSortKey(rating) = %v, %v", k, ok)
	}
	if k, ok := ParseSortKey("upvotes"); ok || k != SortRelevance {
		t.Errorf("ParseSortKey(upvotes) = %v, %v", k, ok)
	}
}

func numbered(n int) []models.Tool {
	out := make([]models.Tool, n)
	for i := range out {
		out[i] = models.Tool{ID: fmt.Sprintf("tool-%02d", i), Name: fmt.Sprintf("Tool %02d", i)}
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		page, size     int
		wantItems      int
		wantTotalPages int
	}{
		{"empty catalog", 0, 1, 24, 0, 1},
		{"first page", 50, 1, 24, 24, 3},
		{"last partial page", 50, 3, 24, 2, 3},
		{"past the end", 50, 4, 24, 0, 3},
		{"exact multiple", 48, 2, 24, 24, 2},
		{"page below one", 10, 0, 24, 10, 1},
		{"size below one", 30, 1, 0, 24, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(numbered(tt.total), tt.page, tt.size)
			if len(p.Items) != tt.wantItems {
				t.Errorf("len(Items) = %d, want %d", len(p.Items), tt.wantItems)
			}
			if p.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantTotalPages)
			}
			if p.Total != tt.total {
				t.Errorf("Total = %d, want %d", p.Total, tt.total)
			}
		})
	}
}

func TestPaginate_LastPageItems(t *testing.T) {
	p := Paginate(numbered(50), 3, 24)
	if got := ids(p.Items); !slices.Equal(got, []string{"tool-48", "tool-49"}) {
		t.Errorf("page 3 = %v", got)
	}
}

func TestPaginate_HugeValuesDoNotOverflow(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		wantItems      int
		wantTotalPages int
	}{
		{"huge page", math.MaxInt/24 + 2, 24, 0, 3},
		{"max page", math.MaxInt, 24, 0, 3},
		{"huge size first page", 1, math.MaxInt, 50, 1},
		{"huge size later page", 3, math.MaxInt/2 + 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(numbered(50), tt.page, tt.size)
			if len(p.Items) != tt.wantItems || p.TotalPages != tt.wantTotalPages {
				t.Errorf("got %d items over %d pages, want %d over %d", len(p.Items), p.TotalPages, tt.wantItems, tt.wantTotalPages)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 24, 0},
		{3, 24, 48},
		{0, 24, 0},
		{math.MaxInt/24 + 2, 24, math.MaxInt},
		{3, math.MaxInt/2 + 1, math.MaxInt},
	}

	for _, tt := range tests {
		if got := Offset(tt.page, tt.size); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total, width int
		want                  []int
	}{
		{1, 1, 5, []int{1}},
		{1, 10, 5, []int{1, 2, 3, 4, 5}},
		{5, 10, 5, []int{3, 4, 5, 6, 7}},
		{10, 10, 5, []int{6, 7, 8, 9, 10}},
		{2, 3, 5, []int{1, 2, 3}},
		{42, 10, 5, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		got := PageWindow(tt.current, tt.total, tt.width)
		if !slices.Equal(got, tt.want) {
			t.Errorf("PageWindow(%d, %d, %d) = %v, want %v", tt.current, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	tools := sampleTools()

	res := Run(tools, Params{Query: "image", Category: AllCategories, Sort: SortName})
	if got := ids(res.Items); !slices.Equal(got, []string{"dall-e", "midjourney"}) {
		t.Errorf("Run() items = %v", got)
	}
	if res.Total != 2 || res.TotalPages != 1 || res.Page != 1 || res.PageSize != DefaultPageSize {
		t.Errorf("Run() = %+v", res)
	}
	if res.HasPrev() || res.HasNext() {
		t.Error("single page result should have no neighbours")
	}

	if got := ids(tools); !slices.Equal(got, []string{"chatgpt", "midjourney", "copilot", "dall-e"}) {
		t.Errorf("Run() must not reorder its input, got %v", got)
	}
}

func TestRun_CategoryAndPaging(t *testing.T) {
	tools := numbered(50)
	for i := range tools {
		tools[i].Categories = models.CategoryList{"Code"}
	}

	res := Run(tools, Params{Category: "Code", Page: 3, PageSize: 24})
	if len(res.Items) != 2 || res.TotalPages != 3 {
		t.Errorf("got %d items over %d pages, want 2 over 3", len(res.Items), res.TotalPages)
	}
	if !res.HasPrev() || res.HasNext() {
		t.Error("page 3 of 3 should have only a previous page")
	}
}

func TestRun_HugePageSize(t *testing.T) {
	res := Run(sampleTools(), Params{Page: 3, PageSize: math.MaxInt/2 + 1})
	if len(res.Items) != 0 || res.Total != 4 || res.TotalPages != 1 {
		t.Errorf("Run() = %d items, total %d, %d pages", len(res.Items), res.Total, res.TotalPages)
	}
}

func TestParseParams(t *testing.T) {
	v := url.Values{}
	v.Set("q", " chat ")
	v.Set("category", "Chatbot")
	v.Set("sort", "popular")
	v.Set("page", "2")

	p := ParseParams(v, SortNewest)
	want := Params{Query: "chat", Category: "Chatbot", Sort: SortPopular, Page: 2, PageSize: DefaultPageSize}
	if p != want {
		t.Errorf("ParseParams() = %+v, want %+v", p, want)
	}

	p = ParseParams(url.Values{"sort": {"bogus"}, "page": {"x"}}, SortNewest)
	if p.Sort != SortNewest || p.Page != 1 {
		t.Errorf("malformed values should fall back to defaults, got %+v", p)
	}
}

func TestParams_Values(t *testing.T) {
	p := Params{Query: "chat", Category: AllCategories, Sort: SortNewest, Page: 1}
	if got := p.Values(SortNewest).Encode(); got != "q=chat" {
		t.Errorf("Values() = %q, want q=chat", got)
	}

	p = Params{Category: "Code", Sort: SortName, Page: 3, PageSize: 12}
	back := ParseParams(p.Values(SortNewest), SortNewest)
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestResultCategories(t *testing.T) {
	got := ResultCategories(sampleTools())
	want := []string{"Chatbot", "Code", "Image Generation", "Productivity"}
	if !slices.Equal(got, want) {
		t.Errorf("ResultCategories() = %v, want %v", got, want)
	}
}
