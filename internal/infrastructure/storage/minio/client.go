// Package minio stores structure files and detection results in an
// S3-compatible bucket.
package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

const (
	DefaultRegion         = "us-east-1"
	DefaultBucket         = "hbond-structures"
	DefaultResultPrefix   = "results/"
	DefaultMaxObjectBytes = 64 << 20
)

var ErrClientClosed = errors.New(errors.ErrCodeInternal, "minio client is closed")

// Config selects the endpoint and bucket.
type Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	// ResultPrefix is prepended to the keys results are written under.
	ResultPrefix string `mapstructure:"result_prefix"`
	// MaxObjectBytes caps the size of structure files read from the bucket.
	MaxObjectBytes int64 `mapstructure:"max_object_bytes"`
	CreateBucket   bool  `mapstructure:"create_bucket"`
}

// ApplyDefaults fills zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.ResultPrefix == "" {
		c.ResultPrefix = DefaultResultPrefix
	}
	if c.MaxObjectBytes == 0 {
		c.MaxObjectBytes = DefaultMaxObjectBytes
	}
}

// ObjectAPI is the subset of the MinIO SDK the client uses.  GetObject
// returns a plain reader so tests can stub it.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type sdkAPI struct {
	*minio.Client
}

func (a sdkAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucket, key, opts)
}

// Client reads and writes objects in one bucket.
type Client struct {
	api    ObjectAPI
	cfg    Config
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the endpoint and checks the bucket, creating it when
// cfg.CreateBucket is set.
func NewClient(ctx context.Context, cfg Config, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeValidation, "minio endpoint required")
	}
	cfg.ApplyDefaults()
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}
	c := NewClientWithAPI(sdkAPI{mc}, cfg, log)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing ObjectAPI.
func NewClientWithAPI(api ObjectAPI, cfg Config, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	cfg.ApplyDefaults()
	return &Client{api: api, cfg: cfg, logger: log.Named("minio")}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.cfg.Bucket }

// ResultKey returns the object key a result named id is stored under.
func (c *Client) ResultKey(id string) string { return c.cfg.ResultPrefix + id + ".json" }

// EnsureBucket checks the bucket exists and creates it if allowed.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "failed to reach object storage")
	}
	if exists {
		return nil
	}
	if !c.cfg.CreateBucket {
		return errors.New(errors.ErrCodeNotFound, "bucket not found").WithDetail(c.cfg.Bucket)
	}
	if err := c.api.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "failed to create bucket").WithDetail(c.cfg.Bucket)
	}
	c.logger.Info("created bucket", logging.String("bucket", c.cfg.Bucket))
	return nil
}

// HealthCheck reports whether the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	ok, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "object storage unreachable")
	}
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "bucket not found").WithDetail(c.cfg.Bucket)
	}
	return nil
}

// Close marks the client closed.  The SDK holds no connections to release.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

//Personal.AI order the ending
