// Package storage publishes catalog snapshots to S3-compatible object
// storage so other hosts can pick them up.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	snapshotRoot   = "snapshots"
	snapshotObject = "catalog.json"
	metadataObject = "metadata.json"
	latestObject   = "latest.json"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client reads and writes snapshot objects in one bucket.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// ShortHash returns the first eight hex characters of the SHA-256 of s.
func ShortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

// SnapshotPrefix returns a unique prefix such as
// "snapshots/2025-01-02T03-04-05-1a2b3c4d". Prefixes sort chronologically.
func SnapshotPrefix(source string, at time.Time) string {
	at = at.UTC()
	id := ShortHash(fmt.Sprintf("%s-%d", source, at.UnixNano()))
	return path.Join(snapshotRoot, at.Format("2006-01-02T15-04-05")+"-"+id)
}

// SnapshotMetadata describes one published snapshot.
type SnapshotMetadata struct {
	SourceURL string   `json:"source_url"`
	Timestamp string   `json:"timestamp"`
	ToolCount int      `json:"tool_count"`
	Skipped   []string `json:"skipped,omitempty"` // detail pages that failed
}

type latestPointer struct {
	Prefix string `json:"prefix"`
}

func (c *Client) put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (c *Client) get(ctx context.Context, objectName string) ([]byte, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	return io.ReadAll(object)
}

// PutSnapshot writes the encoded catalog under prefix.
func (c *Client) PutSnapshot(ctx context.Context, prefix string, data []byte) error {
	if err := c.put(ctx, path.Join(prefix, snapshotObject), data, "application/json"); err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot reads the encoded catalog stored under prefix.
func (c *Client) GetSnapshot(ctx context.Context, prefix string) ([]byte, error) {
	data, err := c.get(ctx, path.Join(prefix, snapshotObject))
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return data, nil
}

// PutMetadata writes the snapshot metadata JSON under prefix.
func (c *Client) PutMetadata(ctx context.Context, prefix string, meta SnapshotMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.put(ctx, path.Join(prefix, metadataObject), data, "application/json"); err != nil {
		return fmt.Errorf("failed to put metadata: %w", err)
	}
	return nil
}

// GetMetadata reads the snapshot metadata stored under prefix.
func (c *Client) GetMetadata(ctx context.Context, prefix string) (*SnapshotMetadata, error) {
	data, err := c.get(ctx, path.Join(prefix, metadataObject))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// SetLatest points the bucket's latest marker at prefix.
func (c *Client) SetLatest(ctx context.Context, prefix string) error {
	data, err := json.Marshal(latestPointer{Prefix: prefix})
	if err != nil {
		return fmt.Errorf("failed to marshal latest pointer: %w", err)
	}
	if err := c.put(ctx, path.Join(snapshotRoot, latestObject), data, "application/json"); err != nil {
		return fmt.Errorf("failed to put latest pointer: %w", err)
	}
	return nil
}

// Latest returns the prefix of the most recently published snapshot.
func (c *Client) Latest(ctx context.Context) (string, error) {
	data, err := c.get(ctx, path.Join(snapshotRoot, latestObject))
	if err != nil {
		return "", fmt.Errorf("failed to get latest pointer: %w", err)
	}

	var p latestPointer
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("failed to unmarshal latest pointer: %w", err)
	}
	if p.Prefix == "" {
		return "", fmt.Errorf("latest pointer is empty")
	}
	return p.Prefix, nil
}

// ListSnapshots returns every snapshot prefix in the bucket, oldest first.
func (c *Client) ListSnapshots(ctx context.Context) ([]string, error) {
	var prefixes []string

	objectCh := c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    snapshotRoot + "/",
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, "/"+snapshotObject) {
			prefixes = append(prefixes, path.Dir(object.Key))
		}
	}

	slices.Sort(prefixes)
	return prefixes, nil
}
