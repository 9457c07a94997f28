package cmd

import (
	"fmt"

	"github.com/mfenderov/aitools/internal/directory"
	"github.com/mfenderov/aitools/pkg/models"
	"github.com/spf13/cobra"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show one tool",
	Long: `Show one tool by id or name slug, with related tools.

Examples:
  aitools show chatgpt
  aitools show midjourney --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text or json")
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := validateFormat(showFormat); err != nil {
		return err
	}

	dir, _, err := loadDirectory(GetConfig().Catalog)
	if err != nil {
		return err
	}

	tool, ok := dir.ToolBySlug(args[0])
	if !ok {
		return fmt.Errorf("tool not found: %s", args[0])
	}
	related := dir.RelatedTools(tool.ID, directory.DefaultFeaturedLimit)

	if showFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), struct {
			Tool    models.Tool   `json:"tool"`
			Related []models.Tool `json:"related"`
		}{tool, related})
	}
	printTool(cmd.OutOrStdout(), tool, related)
	return nil
}
