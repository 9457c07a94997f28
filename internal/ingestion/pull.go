package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mfenderov/aitools/internal/catalog"
)

// Fetcher downloads published snapshots. *storage.Client satisfies it.
type Fetcher interface {
	Latest(ctx context.Context) (string, error)
	GetSnapshot(ctx context.Context, prefix string) ([]byte, error)
}

// Pull downloads the snapshot at prefix, or the latest one when prefix is
// empty, and installs it at path. The file is only replaced once the
// download has decoded into a non-empty catalog.
func Pull(ctx context.Context, f Fetcher, prefix, path string) (*catalog.Store, error) {
	if prefix == "" {
		latest, err := f.Latest(ctx)
		if err != nil {
			return nil, err
		}
		prefix = latest
	}

	data, err := f.GetSnapshot(ctx, prefix)
	if err != nil {
		return nil, err
	}

	snap, err := catalog.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", prefix, err)
	}

	store := catalog.New(snap.Tools)
	if store.Len() == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", prefix, ErrNoTools)
	}

	snap.Tools = store.All()
	if err := catalog.WriteFile(path, snap); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	slog.Info("snapshot pulled", "prefix", prefix, "path", path, "tools", store.Len())
	return store, nil
}
