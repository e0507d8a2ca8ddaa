// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filestore uploads artifact files to an S3-compatible bucket and
// records each upload in the file history ledger.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/pdiddy/cpic-data/internal/logging"
	"github.com/pdiddy/cpic-data/pkg/types"
)

const defaultPrefix = "data/"

// Recorder stores a ledger entry for an uploaded file.
type Recorder interface {
	Record(ctx context.Context, e types.HistoryEntry) (types.HistoryEntry, error)
}

// Upload describes a stored object.
type Upload struct {
	Bucket    string
	Key       string
	PublicURL string
	Size      int64
}

// Client puts artifact files into the configured bucket.
type Client struct {
	client   *minio.Client
	cfg      types.ObjectStoreConfig
	logger   *zap.Logger
	recorder Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// WithRecorder records every upload in a history ledger.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New validates cfg and creates the object store client.
func New(cfg types.ObjectStoreConfig, opts ...Option) (*Client, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.AccessKey = strings.TrimSpace(cfg.AccessKey)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object store: endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store: bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("object store: access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("object store: secret key is required")
	}
	cfg.Prefix = normalizePrefix(cfg.Prefix)
	if cfg.PublicURLBase == "" {
		cfg.PublicURLBase = "http://" + cfg.Bucket + "/"
	}

	options := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		options.BucketLookup = minio.BucketLookupPath
	}

	mc, err := minio.New(cfg.Endpoint, options)
	if err != nil {
		return nil, fmt.Errorf("object store: create client: %w", err)
	}

	c := &Client{client: mc, cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ObjectKey returns the key a local file is stored under.
func (c *Client) ObjectKey(localPath string) string {
	return c.cfg.Prefix + filepath.Base(localPath)
}

// PublicURL returns the address a stored key is served from.
func (c *Client) PublicURL(key string) string {
	return strings.TrimRight(c.cfg.PublicURLBase, "/") + "/" + key
}

// PutArtifact uploads the file at localPath as application/json. Ledger
// failures are logged and do not fail the upload.
func (c *Client) PutArtifact(ctx context.Context, localPath string) (Upload, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Upload{}, fmt.Errorf("object store: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Upload{}, fmt.Errorf("object store: stat %s: %w", localPath, err)
	}

	key := c.ObjectKey(localPath)
	_, err = c.client.PutObject(ctx, c.cfg.Bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return Upload{}, fmt.Errorf("object store: put object %s: %w", key, err)
	}

	up := Upload{
		Bucket:    c.cfg.Bucket,
		Key:       key,
		PublicURL: c.PublicURL(key),
		Size:      info.Size(),
	}
	c.logger.Info("uploaded", zap.String("object", fmt.Sprintf("s3://%s/%s", up.Bucket, up.Key)))

	if c.recorder != nil {
		_, err := c.recorder.Record(ctx, types.HistoryEntry{
			FileName: filepath.Base(localPath),
			Action:   types.ActionUpload,
			Location: up.PublicURL,
			Bytes:    up.Size,
		})
		if err != nil {
			c.logger.Warn("recording upload history failed", zap.String("file", localPath), zap.Error(err))
		}
	}
	return up, nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return defaultPrefix
	}
	return p + "/"
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
