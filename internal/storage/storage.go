// Package storage fetches source workbooks. Production reads from an
// S3-compatible COS bucket; dev mode reads from a local directory.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Fetcher retrieves a workbook by object key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// COSConfig holds the bucket connection settings.
type COSConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// COSConfigFromEnv reads the bucket settings from the environment.
func COSConfigFromEnv() COSConfig {
	return COSConfig{
		Endpoint:  os.Getenv("COS_ENDPOINT"),
		AccessKey: os.Getenv("COS_ACCESS_KEY"),
		SecretKey: os.Getenv("COS_SECRET_KEY"),
		Bucket:    os.Getenv("COS_BUCKET"),
		UseSSL:    os.Getenv("COS_DISABLE_SSL") == "",
	}
}

// COSClient fetches objects from an S3-compatible bucket.
type COSClient struct {
	client *minio.Client
	bucket string
}

// NewCOSClient connects to the bucket named in cfg.
func NewCOSClient(cfg COSConfig) (*COSClient, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint and bucket are required")
	}
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect %s: %w", cfg.Endpoint, err)
	}
	return &COSClient{client: c, bucket: cfg.Bucket}, nil
}

// Fetch downloads one object into memory. Workbooks are a few MB at most.
func (c *COSClient) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// LocalDir serves objects from a directory tree, keyed by relative path.
type LocalDir struct {
	Root string
}

// Fetch reads the file at Root/key.
func (l LocalDir) Fetch(_ context.Context, key string) ([]byte, error) {
	path := filepath.Join(l.Root, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}
