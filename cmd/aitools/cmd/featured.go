package cmd

import (
	"fmt"

	"github.com/mfenderov/aitools/internal/directory"
	"github.com/spf13/cobra"
)

var (
	featuredLimit  int
	featuredFormat string
)

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Show the most reviewed tools",
	Args:  cobra.NoArgs,
	RunE:  runFeatured,
}

func init() {
	rootCmd.AddCommand(featuredCmd)

	featuredCmd.Flags().IntVar(&featuredLimit, "limit", directory.DefaultFeaturedLimit, "Maximum number of tools")
	featuredCmd.Flags().StringVar(&featuredFormat, "format", "text", "Output format: text or json")
}

func runFeatured(cmd *cobra.Command, args []string) error {
	if err := validateFormat(featuredFormat); err != nil {
		return err
	}

	dir, _, err := loadDirectory(GetConfig().Catalog)
	if err != nil {
		return err
	}

	tools := dir.FeaturedTools(featuredLimit)
	if featuredFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), tools)
	}
	if len(tools) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reviewed tools yet.")
		return nil
	}
	printTools(cmd.OutOrStdout(), tools)
	return nil
}
