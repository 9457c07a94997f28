package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CategoryList is the canonical list-of-categories form. It decodes from
// either a JSON string or a JSON array of strings.
type CategoryList []string

// UnmarshalJSON accepts "Chatbot", ["Chatbot", "Writing"] and null.
func (c *CategoryList) UnmarshalJSON(data []byte) error {
	list, err := decodeStringList(data)
	if err != nil {
		return err
	}
	*c = list
	return nil
}

// FieldIssue describes a field that was missing or had the wrong type and
// was coerced during decoding.
type FieldIssue struct {
	Field  string
	Reason string
}

func (i FieldIssue) String() string {
	return i.Field + ": " + i.Reason
}

// rawTool mirrors Tool with every field left undecoded so that wrong-typed
// values can be coerced one field at a time.
type rawTool struct {
	ID          json.RawMessage `json:"id"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Category    json.RawMessage `json:"category"`
	Categories  json.RawMessage `json:"categories"`
	Pricing     json.RawMessage `json:"pricing"`
	Price       json.RawMessage `json:"price"`
	Website     json.RawMessage `json:"website"`
	Logo        json.RawMessage `json:"logo"`
	Emoji       json.RawMessage `json:"emoji"`
	Features    json.RawMessage `json:"features"`
	LaunchDate  json.RawMessage `json:"launchDate"`
	Reviews     json.RawMessage `json:"reviews"`
	Rating      json.RawMessage `json:"rating"`
	About       json.RawMessage `json:"about"`
	SourceURL   json.RawMessage `json:"source_url"`
}

// DecodeTool decodes one catalog record, coercing wrong-typed fields instead
// of failing. Only input that is not a JSON object is an error; everything
// else is reported through the returned issues.
func DecodeTool(data []byte) (Tool, []FieldIssue, error) {
	var raw rawTool
	if err := json.Unmarshal(data, &raw); err != nil {
		return Tool{}, nil, fmt.Errorf("decode tool: %w", err)
	}

	d := &decoder{}
	t := Tool{
		ID:          d.str("id", raw.ID),
		Name:        d.str("name", raw.Name),
		Description: d.str("description", raw.Description),
		Website:     d.str("website", raw.Website),
		Logo:        d.str("logo", raw.Logo),
		Emoji:       d.str("emoji", raw.Emoji),
		LaunchDate:  d.str("launchDate", raw.LaunchDate),
		Reviews:     d.str("reviews", raw.Reviews),
		About:       d.str("about", raw.About),
		SourceURL:   d.str("source_url", raw.SourceURL),
		Features:    d.list("features", raw.Features),
	}

	cat := raw.Category
	if isAbsent(cat) {
		cat = raw.Categories
	}
	t.Categories = CategoryList(d.list("category", cat))

	t.Rating = d.number("rating", raw.Rating)
	t.Pricing = d.pricing(raw.Pricing, raw.Price)

	if t.Name == "" {
		d.issue("name", "missing")
	}
	if t.Description == "" {
		d.issue("description", "missing")
	}
	if t.LaunchDate != "" {
		if _, ok := t.LaunchTime(); !ok {
			d.issue("launchDate", "unparsable date "+strconv.Quote(t.LaunchDate))
		}
	}

	return t, d.issues, nil
}

// UnmarshalJSON decodes a Tool leniently; see DecodeTool.
func (t *Tool) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeTool(data)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

type decoder struct {
	issues []FieldIssue
}

func (d *decoder) issue(field, reason string) {
	d.issues = append(d.issues, FieldIssue{Field: field, Reason: reason})
}

func (d *decoder) str(field string, raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		d.issue(field, "number coerced to string")
		return n.String()
	}
	d.issue(field, "unsupported type, ignored")
	return ""
}

func (d *decoder) list(field string, raw json.RawMessage) []string {
	list, err := decodeStringList(raw)
	if err != nil {
		d.issue(field, "unsupported type, ignored")
		return []string{}
	}
	return list
}

func (d *decoder) number(field string, raw json.RawMessage) *float64 {
	if isAbsent(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, ok := ParseReviews(s); ok {
			d.issue(field, "string coerced to number")
			return &n
		}
	}
	d.issue(field, "unparsable, ignored")
	return nil
}

func (d *decoder) pricing(raw, legacyPrice json.RawMessage) Pricing {
	var p Pricing
	if !isAbsent(raw) {
		var obj struct {
			Type  json.RawMessage `json:"type"`
			Tier  json.RawMessage `json:"tier"`
			Price json.RawMessage `json:"price"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			tier := obj.Type
			if isAbsent(tier) {
				tier = obj.Tier
			}
			p.Tier = PricingTier(d.str("pricing.type", tier))
			p.Price = d.str("pricing.price", obj.Price)
		} else {
			// A bare string is treated as the tier name.
			p.Tier = PricingTier(d.str("pricing", raw))
		}
	}
	if p.Price == "" {
		p.Price = d.str("price", legacyPrice)
	}
	if p.Tier != "" && !p.Tier.Valid() {
		d.issue("pricing.type", "unknown tier "+strconv.Quote(string(p.Tier)))
		p.Tier = ""
	}
	return p
}

func decodeStringList(data []byte) ([]string, error) {
	if isAbsent(data) {
		return []string{}, nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		return appendNonEmpty(nil, one), nil
	}
	var many []any
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(many))
	for _, v := range many {
		switch s := v.(type) {
		case string:
			out = appendNonEmpty(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		}
	}
	return out, nil
}

func appendNonEmpty(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		if list == nil {
			return []string{}
		}
		return list
	}
	return append(list, s)
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
