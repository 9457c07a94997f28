package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mfenderov/aitools/pkg/models"
)

// Snapshot is the on-disk catalog: the whole list of tools, regenerated
// wholesale by each ingestion run.
type Snapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Source      string        `json:"source,omitempty"`
	Tools       []models.Tool `json:"tools"`
}

// Decode reads a snapshot. Both the snapshot object and a bare JSON array
// of tools are accepted. Records that fail to decode are skipped; fields
// that had to be coerced are logged.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	var envelope struct {
		GeneratedAt time.Time         `json:"generated_at"`
		Source      string            `json:"source"`
		Tools       []json.RawMessage `json:"tools"`
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &envelope.Tools); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	} else if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	snap := &Snapshot{
		GeneratedAt: envelope.GeneratedAt,
		Source:      envelope.Source,
		Tools:       make([]models.Tool, 0, len(envelope.Tools)),
	}
	for i, raw := range envelope.Tools {
		tool, issues, err := models.DecodeTool(raw)
		if err != nil {
			slog.Warn("skipping malformed catalog record", "index", i, "error", err)
			continue
		}
		for _, issue := range issues {
			slog.Warn("malformed catalog field", "index", i, "id", tool.ID, "field", issue.Field, "reason", issue.Reason)
		}
		snap.Tools = append(snap.Tools, tool)
	}

	return snap, nil
}

// Encode writes snap as indented JSON.
func Encode(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot file and builds a store from it.
func LoadFile(path string) (*Store, *Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	store := New(snap.Tools)
	slog.Debug("catalog loaded", "path", path, "tools", store.Len(), "generated_at", snap.GeneratedAt)
	return store, snap, nil
}

// WriteFile replaces the snapshot at path. The data goes to a temporary file
// in the same directory which is then renamed over path, so readers see
// either the old snapshot or the new one, never a partial file.
func WriteFile(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
