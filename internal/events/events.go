// Package events defines the messages passed between the ingestion
// producer and its downstream workers.
package events

import "time"

// SnapshotPublishedEvent is sent once a new catalog snapshot has been
// written locally and, when storage is enabled, uploaded.
type SnapshotPublishedEvent struct {
	Path      string    // local snapshot file
	Bucket    string    // empty when the snapshot was not uploaded
	Prefix    string    // e.g. "snapshots/2025-01-02T03-04-05-1a2b3c4d"
	SourceURL string    // listing page the tools came from
	ToolCount int       // records in the snapshot
	Skipped   int       // detail pages that failed
	Timestamp time.Time // when the snapshot was generated
}

// IndexCompleteEvent is sent when a worker finishes mirroring a snapshot
// into the search index.
type IndexCompleteEvent struct {
	Index        string
	ToolsIndexed int
	Duration     time.Duration
	Err          error // nil on success
}
