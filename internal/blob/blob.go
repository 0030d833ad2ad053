// Package blob archives uploaded resume originals
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// Store keeps opaque objects under slash-separated keys
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New builds the blob store selected by configuration. The "none" driver
// returns a nil Store; callers skip archiving in that case
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocal(cfg.Local.Dir)
	case "minio":
		return NewMinIO(ctx, cfg.MinIO)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, fmt.Sprintf("unknown blob driver %q", cfg.Driver), nil)
	}
}

// Key builds the object key of an uploaded original, keeping its extension
func Key(resumeID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "resumes/" + resumeID + "/original" + ext
}

// ContentType maps a resume filename onto the MIME type it is archived with
func ContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func validKey(key string) error {
	clean := path.Clean("/" + key)
	if key == "" || strings.HasSuffix(key, "/") || clean != "/"+key {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "invalid blob key", nil).WithContext("key", key)
	}
	return nil
}

func missing(key string) error {
	return errors.NewNotFoundError(errors.ErrCodeNotFound, "blob not found", nil).WithContext("key", key)
}
