package cmd

import (
	"fmt"

	"github.com/mfenderov/aitools/internal/query"
	"github.com/spf13/cobra"
)

var listFlags queryFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse the catalog page by page",
	Long: `List the whole catalog, newest first by default.

The --category flag also accepts a URL slug such as image-generation.

Examples:
  aitools list
  aitools list --category image-generation --page 2
  aitools list --sort popular --page-size 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags.register(listCmd, query.SortNewest)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dir, _, err := loadDirectory(cfg.Catalog)
	if err != nil {
		return err
	}

	if c := listFlags.category; c != "" && c != query.AllCategories {
		if name, ok := dir.CategoryBySlug(c); ok {
			listFlags.category = name
		} else {
			return fmt.Errorf("unknown category %q", c)
		}
	}

	p, err := listFlags.params("", query.SortNewest, cfg.Query.PageSize)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), listFlags.format, dir.Query(p))
}
