package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// Get reads the object at key.  A missing object is ErrCodeNotFound; one
// larger than MaxObjectBytes is ErrCodeValidation; transport failures are
// ErrCodeUnavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	info, err := c.api.StatObject(ctx, c.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, key)
	}
	if info.Size > c.cfg.MaxObjectBytes {
		return nil, errors.New(errors.ErrCodeValidation, "object too large").WithDetail(key)
	}

	r, err := c.api.GetObject(ctx, c.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, key)
	}
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, c.cfg.MaxObjectBytes+1))
	if err != nil {
		return nil, mapError(err, key)
	}
	if int64(len(data)) > c.cfg.MaxObjectBytes {
		return nil, errors.New(errors.ErrCodeValidation, "object too large").WithDetail(key)
	}
	c.logger.Debug("object read", logging.String("key", key), logging.Int("bytes", len(data)))
	return data, nil
}

// Put writes data to key, replacing any existing object.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	if key == "" {
		return errors.New(errors.ErrCodeValidation, "object key required")
	}
	_, err := c.api.PutObject(ctx, c.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "failed to write object").WithDetail(key)
	}
	c.logger.Debug("object written", logging.String("key", key), logging.Int("bytes", len(data)))
	return nil
}

func mapError(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrap(err, errors.ErrCodeNotFound, "object not found").WithDetail(key)
	}
	return errors.Wrap(err, errors.ErrCodeUnavailable, "failed to read object").WithDetail(key)
}

//Personal.AI order the ending
