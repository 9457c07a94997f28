// Package ingestion turns one scrape run into a published catalog
// snapshot.
package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfenderov/aitools/internal/catalog"
	"github.com/mfenderov/aitools/internal/events"
	"github.com/mfenderov/aitools/internal/scraper"
	"github.com/mfenderov/aitools/internal/storage"
)

// ErrNoTools is returned when a run extracts no usable records. The
// previous snapshot is left in place.
var ErrNoTools = errors.New("scrape produced no tools")

// Scraper produces tool records from a listing page.
type Scraper interface {
	Scrape(ctx context.Context, listingURL string) (*scraper.Result, error)
}

// Publisher uploads snapshots. *storage.Client satisfies it.
type Publisher interface {
	Bucket() string
	PutSnapshot(ctx context.Context, prefix string, data []byte) error
	PutMetadata(ctx context.Context, prefix string, meta storage.SnapshotMetadata) error
	SetLatest(ctx context.Context, prefix string) error
}

// Result holds ingestion execution results.
type Result struct {
	Path        string
	Prefix      string // empty when nothing was uploaded
	SourceURL   string
	Store       *catalog.Store
	Skipped     []string // detail page URLs that failed
	GeneratedAt time.Time
	Duration    time.Duration
}

// Event describes r for downstream workers.
func (r *Result) Event(bucket string) events.SnapshotPublishedEvent {
	if r.Prefix == "" {
		bucket = ""
	}
	return events.SnapshotPublishedEvent{
		Path:      r.Path,
		Bucket:    bucket,
		Prefix:    r.Prefix,
		SourceURL: r.SourceURL,
		ToolCount: r.Store.Len(),
		Skipped:   len(r.Skipped),
		Timestamp: r.GeneratedAt,
	}
}

// Engine scrapes the directory, normalizes the records and writes the
// snapshot file, then uploads it when a publisher is configured.
type Engine struct {
	scraper   Scraper
	path      string
	publisher Publisher // nil if uploads are disabled
	now       func() time.Time
}

// New creates a new ingestion engine writing to snapshotPath.
func New(s Scraper, snapshotPath string, publisher Publisher) *Engine {
	return &Engine{
		scraper:   s,
		path:      snapshotPath,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run performs one ingestion. A listing failure, cancellation, or a run
// with zero tools returns an error before anything is written. An upload
// failure is returned after the local snapshot has been replaced.
func (e *Engine) Run(ctx context.Context, listingURL string) (*Result, error) {
	start := e.now()

	scraped, err := e.scraper.Scrape(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape %s: %w", listingURL, err)
	}

	store := catalog.New(scraped.Tools)
	if store.Len() == 0 {
		return nil, fmt.Errorf("%w (listed %d, failed %d)", ErrNoTools, scraped.Listed, len(scraped.Errors))
	}

	result := &Result{
		Path:        e.path,
		SourceURL:   listingURL,
		Store:       store,
		GeneratedAt: e.now().UTC(),
	}
	for _, pe := range scraped.Errors {
		result.Skipped = append(result.Skipped, pe.URL)
	}

	snap := &catalog.Snapshot{
		GeneratedAt: result.GeneratedAt,
		Source:      listingURL,
		Tools:       store.All(),
	}
	if err := catalog.WriteFile(e.path, snap); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	slog.Info("snapshot written", "path", e.path, "tools", store.Len(), "skipped", len(result.Skipped))

	if e.publisher != nil {
		prefix, err := e.publish(ctx, snap, result.Skipped)
		if err != nil {
			result.Duration = e.now().Sub(start)
			return result, fmt.Errorf("snapshot written to %s but upload failed: %w", e.path, err)
		}
		result.Prefix = prefix
	}

	result.Duration = e.now().Sub(start)
	return result, nil
}

func (e *Engine) publish(ctx context.Context, snap *catalog.Snapshot, skipped []string) (string, error) {
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, snap); err != nil {
		return "", err
	}

	prefix := storage.SnapshotPrefix(snap.Source, snap.GeneratedAt)
	if err := e.publisher.PutSnapshot(ctx, prefix, buf.Bytes()); err != nil {
		return "", err
	}

	meta := storage.SnapshotMetadata{
		SourceURL: snap.Source,
		Timestamp: snap.GeneratedAt.Format(time.RFC3339),
		ToolCount: len(snap.Tools),
		Skipped:   skipped,
	}
	if err := e.publisher.PutMetadata(ctx, prefix, meta); err != nil {
		return "", err
	}
	if err := e.publisher.SetLatest(ctx, prefix); err != nil {
		return "", err
	}

	slog.Info("snapshot uploaded", "bucket", e.publisher.Bucket(), "prefix", prefix)
	return prefix, nil
}
