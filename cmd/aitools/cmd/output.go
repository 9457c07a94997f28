package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mfenderov/aitools/internal/query"
	"github.com/mfenderov/aitools/pkg/models"
)

func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func pricingLabel(p models.Pricing) string {
	label := string(p.Tier)
	if p.Price != "" {
		label = strings.TrimSpace(label + " " + p.Price)
	}
	return label
}

func printToolLine(w io.Writer, t models.Tool) {
	fmt.Fprintf(w, "%s (%s)\n", t.Name, t.ID)

	var meta []string
	if len(t.Categories) > 0 {
		meta = append(meta, strings.Join(t.Categories, ", "))
	}
	if p := pricingLabel(t.Pricing); p != "" {
		meta = append(meta, p)
	}
	if t.Reviews != "" {
		meta = append(meta, t.Reviews)
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(meta, " | "))
	}

	desc := t.Description
	if r := []rune(desc); len(r) > 160 {
		desc = string(r[:157]) + "..."
	}
	if desc != "" {
		fmt.Fprintf(w, "  %s\n", desc)
	}
}

func printTools(w io.Writer, tools []models.Tool) {
	for i, t := range tools {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printToolLine(w, t)
	}
}

// writeResult prints res as JSON or text. JSON output is always a Result,
// even when nothing matched.
func writeResult(w io.Writer, format string, res query.Result) error {
	if format == "json" {
		return writeJSON(w, res)
	}
	printResult(w, res)
	return nil
}

func printResult(w io.Writer, res query.Result) {
	if res.Total == 0 {
		fmt.Fprintln(w, "No tools found.")
		return
	}

	printTools(w, res.Items)

	pages := make([]string, 0, 5)
	for _, p := range res.Window(5) {
		if p == res.Page {
			pages = append(pages, fmt.Sprintf("[%d]", p))
		} else {
			pages = append(pages, fmt.Sprint(p))
		}
	}
	fmt.Fprintf(w, "\n%d tools, page %d of %d  %s\n", res.Total, res.Page, res.TotalPages, strings.Join(pages, " "))
}

func printTool(w io.Writer, t models.Tool, related []models.Tool) {
	fmt.Fprintf(w, "%s\n", t.Name)
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	if len(t.Categories) > 0 {
		fmt.Fprintf(w, "Categories:  %s\n", strings.Join(t.Categories, ", "))
	}
	if p := pricingLabel(t.Pricing); p != "" {
		fmt.Fprintf(w, "Pricing:     %s\n", p)
	}
	if t.Website != "" {
		fmt.Fprintf(w, "Website:     %s\n", t.Website)
	}
	if t.LaunchDate != "" {
		fmt.Fprintf(w, "Launched:    %s\n", t.LaunchDate)
	}
	if t.Reviews != "" {
		fmt.Fprintf(w, "Reviews:     %s\n", t.Reviews)
	}
	if t.Rating != nil {
		fmt.Fprintf(w, "Rating:      %.1f\n", *t.Rating)
	}
	fmt.Fprintf(w, "\n%s\n", t.Description)

	if len(t.Features) > 0 {
		fmt.Fprintln(w, "\nFeatures:")
		for _, f := range t.Features {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if t.About != "" && t.About != t.Description {
		fmt.Fprintf(w, "\n%s\n", t.About)
	}

	if len(related) > 0 {
		fmt.Fprintln(w, "\nRelated:")
		for _, r := range related {
			fmt.Fprintf(w, "  %s (%s)\n", r.Name, r.ID)
		}
	}
}
