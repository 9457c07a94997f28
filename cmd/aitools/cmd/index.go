package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfenderov/aitools/internal/events"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Mirror the snapshot into Elasticsearch",
	Long: `Rebuild the Elasticsearch index from the local snapshot file.

Example:
  aitools index`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	esClient, err := newESClient(cfg.Elasticsearch)
	if err != nil {
		return err
	}
	if !esClient.Ping(ctx) {
		return fmt.Errorf("elasticsearch not reachable at %v", cfg.Elasticsearch.Addresses)
	}

	done := indexSnapshot(ctx, esClient, events.SnapshotPublishedEvent{Path: cfg.Catalog.Path})
	if done.Err != nil {
		return done.Err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d tools into %s in %v\n", done.ToolsIndexed, done.Index, done.Duration.Round(time.Millisecond))
	return nil
}
