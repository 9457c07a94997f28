package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfenderov/aitools/internal/config"
	"github.com/mfenderov/aitools/internal/elasticsearch"
	"github.com/mfenderov/aitools/internal/events"
	"github.com/mfenderov/aitools/internal/ingestion"
	"github.com/spf13/cobra"
)

var (
	scrapeURL      string
	scrapeMaxTools int
	noIndex        bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the directory and write a new snapshot",
	Long: `Scrape the directory listing, visit each tool page one at a time and
write the normalized catalog to the snapshot file.

When storage is enabled the snapshot is also uploaded to S3/MinIO, and
when Elasticsearch is enabled it is mirrored into the search index.

Examples:
  # Scrape the configured listing
  aitools scrape

  # Scrape a different listing, at most 10 tools
  aitools scrape --url https://example.com/ai-directory/ --max-tools 10

  # Write the snapshot only, skip the search index
  aitools scrape --no-index`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "Listing URL (default from scraper.listing_url)")
	scrapeCmd.Flags().IntVar(&scrapeMaxTools, "max-tools", 0, "Maximum tool pages to visit (default from scraper.max_tools)")
	scrapeCmd.Flags().BoolVar(&noIndex, "no-index", false, "Skip mirroring into Elasticsearch")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if scrapeURL != "" {
		cfg.Scraper.ListingURL = scrapeURL
	}
	if scrapeMaxTools > 0 {
		cfg.Scraper.MaxTools = scrapeMaxTools
	}
	if cfg.Scraper.ListingURL == "" {
		return fmt.Errorf("no listing URL configured and no --url provided")
	}
	slog.Debug("scrape command starting", "url", cfg.Scraper.ListingURL, "max_tools", cfg.Scraper.MaxTools, "no_index", noIndex)

	var publisher ingestion.Publisher
	bucket := ""
	if cfg.Storage.Enabled {
		storageClient, err := newStorageClient(cfg.Storage)
		if err != nil {
			return err
		}
		if err := storageClient.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure bucket: %w", err)
		}
		publisher = storageClient
		bucket = storageClient.Bucket()
	}

	engine := ingestion.New(newScraper(cfg.Scraper), cfg.Catalog.Path, publisher)

	if !cfg.Elasticsearch.Enabled || noIndex {
		res, err := engine.Run(ctx, cfg.Scraper.ListingURL)
		if res != nil {
			printScrapeResult(cmd, res)
		}
		return err
	}

	return runScrapeWithIndex(ctx, cmd, &cfg, engine, bucket)
}

// runScrapeWithIndex hands the published snapshot to an index worker over
// a channel.
func runScrapeWithIndex(ctx context.Context, cmd *cobra.Command, cfg *config.Config, engine *ingestion.Engine, bucket string) error {
	esClient, err := newESClient(cfg.Elasticsearch)
	if err != nil {
		return err
	}

	published := make(chan events.SnapshotPublishedEvent)
	indexed := make(chan events.IndexCompleteEvent, 1)

	// Index worker (consumer)
	go func() {
		defer close(indexed)
		for event := range published {
			indexed <- indexSnapshot(ctx, esClient, event)
		}
	}()

	// Producer
	res, runErr := engine.Run(ctx, cfg.Scraper.ListingURL)
	if res != nil {
		printScrapeResult(cmd, res)
		published <- res.Event(bucket)
	}
	close(published)

	for event := range indexed {
		if event.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  Index error: %v\n", event.Err)
			if runErr == nil {
				runErr = event.Err
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Indexed: %d tools into %s in %v\n", event.ToolsIndexed, event.Index, event.Duration.Round(time.Millisecond))
	}

	return runErr
}

// indexSnapshot rebuilds the search index from the snapshot named by event.
func indexSnapshot(ctx context.Context, esClient *elasticsearch.Client, event events.SnapshotPublishedEvent) events.IndexCompleteEvent {
	start := time.Now()
	done := events.IndexCompleteEvent{Index: esClient.Index()}

	dir, _, err := loadDirectory(config.Catalog{Path: event.Path})
	if err != nil {
		done.Err = err
		return done
	}

	tools := dir.All()
	if err := esClient.Rebuild(ctx, tools); err != nil {
		done.Err = fmt.Errorf("failed to index snapshot: %w", err)
		return done
	}

	done.ToolsIndexed = len(tools)
	done.Duration = time.Since(start)
	return done
}

func printScrapeResult(cmd *cobra.Command, res *ingestion.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scraped: %s\n", res.SourceURL)
	fmt.Fprintf(out, "  Tools: %d, Skipped: %d, Duration: %v\n", res.Store.Len(), len(res.Skipped), res.Duration.Round(time.Millisecond))
	for _, u := range res.Skipped {
		fmt.Fprintf(out, "  Warning: skipped %s\n", u)
	}
	fmt.Fprintf(out, "  Snapshot: %s\n", res.Path)
	if res.Prefix != "" {
		fmt.Fprintf(out, "  Uploaded: %s\n", res.Prefix)
	}
}
