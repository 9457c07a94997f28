package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	categoriesFormat string
	categoriesTop    int
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with tool counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)

	categoriesCmd.Flags().StringVar(&categoriesFormat, "format", "text", "Output format: text or json")
	categoriesCmd.Flags().IntVar(&categoriesTop, "top", 0, "Only show the N largest categories")
}

func runCategories(cmd *cobra.Command, args []string) error {
	if err := validateFormat(categoriesFormat); err != nil {
		return err
	}

	dir, _, err := loadDirectory(GetConfig().Catalog)
	if err != nil {
		return err
	}

	counts := dir.Categories()
	if categoriesTop > 0 && categoriesTop < len(counts) {
		counts = counts[:categoriesTop]
	}

	if categoriesFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), counts)
	}

	if len(counts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
		return nil
	}
	for _, c := range counts {
		fmt.Fprintf(cmd.OutOrStdout(), "%5d  %-32s %s\n", c.Count, c.Name, c.Slug)
	}
	return nil
}
