package blob

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

const bucketCheckTimeout = 5 * time.Second

// MinIO stores objects in an S3-compatible bucket
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the endpoint and creates the bucket when it is missing
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create minio client", err).
			WithContext("endpoint", cfg.Endpoint)
	}

	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to check bucket", err).
			WithContext("bucket", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to create bucket", err).
				WithContext("bucket", cfg.Bucket)
		}
	}
	return &MinIO{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinIO) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := validKey(key); err != nil {
		return err
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to upload blob", err).WithContext("key", key)
	}
	return nil
}

func (m *MinIO) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.readError(key, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.readError(key, err)
	}
	return data, nil
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil && !isNoSuchKey(err) {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to delete blob", err).WithContext("key", key)
	}
	return nil
}

func (m *MinIO) readError(key string, err error) error {
	if isNoSuchKey(err) {
		return missing(key)
	}
	return errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to download blob", err).WithContext("key", key)
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if stderrors.As(err, &resp) {
		switch strings.ToLower(resp.Code) {
		case "nosuchkey", "notfound":
			return true
		}
	}
	return false
}
