package catalog

import (
	"testing"

	"github.com/mfenderov/aitools/pkg/models"
)

func sampleTools() []models.Tool {
	return []models.Tool{
		{ID: "chatgpt", Name: "ChatGPT", Description: "Conversational assistant", Categories: models.CategoryList{"Chatbot"}, Reviews: "500 reviews"},
		{ID: "midjourney", Name: "Midjourney", Description: "Art from prompts", Categories: models.CategoryList{"Image Generation"}, Reviews: "200 reviews"},
		{ID: "claude-ai", Name: "Claude", Description: "Assistant", Categories: models.CategoryList{"Chatbot", "Writing"}},
		{ID: "", Name: "Stable Diffusion XL", Description: "Open image model", Categories: models.CategoryList{"Image Generation"}},
		{ID: "nocat", Name: "No Category", Description: "Uncategorized"},
	}
}

func TestNew_NormalizesRecords(t *testing.T) {
	s := New(append(sampleTools(),
		models.Tool{ID: "chatgpt", Name: "ChatGPT clone"}, // duplicate id
		models.Tool{Description: "nameless and idless"},
	))

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}

	sd, ok := s.GetByID("stable-diffusion-xl")
	if !ok {
		t.Fatal("missing id should be derived from the name slug")
	}
	if sd.Features == nil {
		t.Error("Features should default to an empty list")
	}

	first, _ := s.GetByID("chatgpt")
	if first.Name != "ChatGPT" {
		t.Errorf("duplicate id should keep the first record, got %q", first.Name)
	}
}

func TestStore_AllPreservesOrderAndIsACopy(t *testing.T) {
	s := New(sampleTools())

	all := s.All()
	if all[0].ID != "chatgpt" || all[1].ID != "midjourney" {
		t.Errorf("All() order = %s, %s", all[0].ID, all[1].ID)
	}

	all[0].Name = "mutated"
	if got, _ := s.GetByID("chatgpt"); got.Name != "ChatGPT" {
		t.Error("mutating All() result must not change the store")
	}
}

func TestStore_GetBySlugOrID(t *testing.T) {
	s := New(sampleTools())

	tests := []struct {
		name   string
		key    string
		wantID string
		wantOK bool
	}{
		{"exact id", "claude-ai", "claude-ai", true},
		{"name slug", "claude", "claude-ai", true},
		{"slug is case-insensitive", "ChatGPT", "chatgpt", true},
		{"unknown", "does-not-exist", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.GetBySlugOrID(tt.key)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("GetBySlugOrID(%q) = (%q, %v), want (%q, %v)", tt.key, got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestStore_SlugRoundTrip(t *testing.T) {
	s := New(sampleTools())

	for _, tool := range s.All() {
		got, ok := s.GetBySlugOrID(models.Slugify(tool.Name))
		if !ok {
			t.Errorf("lookup by slug of %q failed", tool.Name)
			continue
		}
		if got.Slug() != tool.Slug() {
			t.Errorf("slug round trip for %q returned %q", tool.Name, got.Name)
		}
	}
}

func TestStore_Categories(t *testing.T) {
	s := New(sampleTools())

	got := s.Categories()
	want := []string{"Chatbot", "Image Generation", "Writing"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStore_CategoryCounts(t *testing.T) {
	s := New(sampleTools())

	counts := s.CategoryCounts()
	if len(counts) != 3 {
		t.Fatalf("CategoryCounts() = %v", counts)
	}
	if counts[0].Name != "Chatbot" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v, want Chatbot with 2", counts[0])
	}
	if counts[1].Name != "Image Generation" || counts[1].Count != 2 || counts[1].Slug != "image-generation" {
		t.Errorf("counts[1] = %+v", counts[1])
	}
	if counts[2].Name != "Writing" || counts[2].Count != 1 {
		t.Errorf("counts[2] = %+v", counts[2])
	}

	if top := s.TopCategories(1); len(top) != 1 || top[0].Name != "Chatbot" {
		t.Errorf("TopCategories(1) = %v", top)
	}
}

func TestStore_CategoryBySlug(t *testing.T) {
	s := New(sampleTools())

	if got, ok := s.CategoryBySlug("image-generation"); !ok || got != "Image Generation" {
		t.Errorf("CategoryBySlug(image-generation) = %q, %v", got, ok)
	}
	if _, ok := s.CategoryBySlug("video"); ok {
		t.Error("unknown category slug should not resolve")
	}
}

func TestHolder_Swap(t *testing.T) {
	h := NewHolder(nil)
	if h.Snapshot() == nil || h.Snapshot().Len() != 0 {
		t.Fatal("nil store should be replaced with an empty one")
	}

	next := New(sampleTools())
	prev := h.Swap(next)
	if prev.Len() != 0 {
		t.Errorf("Swap() returned %d tools, want the empty store", prev.Len())
	}
	if h.Snapshot() != next {
		t.Error("Snapshot() should return the swapped-in store")
	}
}
