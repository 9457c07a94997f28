package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mfenderov/aitools/internal/ingestion"
	"github.com/spf13/cobra"
)

var (
	pullPrefix string
	pullList   bool
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download a published snapshot",
	Long: `Download a snapshot from S3/MinIO and install it as the local catalog.
A running 'aitools serve --watch' picks it up without a restart.

Examples:
  # Install the latest snapshot
  aitools pull

  # List published snapshots
  aitools pull --list

  # Install a specific snapshot
  aitools pull --prefix snapshots/2025-01-02T03-04-05-1a2b3c4d`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().StringVar(&pullPrefix, "prefix", "", "Snapshot prefix (default: latest)")
	pullCmd.Flags().BoolVar(&pullList, "list", false, "List published snapshots and exit")
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	storageClient, err := newStorageClient(cfg.Storage)
	if err != nil {
		return err
	}

	if pullList {
		prefixes, err := storageClient.ListSnapshots(ctx)
		if err != nil {
			return err
		}
		for _, p := range prefixes {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}

	store, err := ingestion.Pull(ctx, storageClient, pullPrefix, cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %d tools at %s\n", store.Len(), cfg.Catalog.Path)
	return nil
}
