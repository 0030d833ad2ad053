// Package store keeps resumes, job descriptions and optimization jobs
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// Store persists the records the API and the optimizer share
type Store interface {
	SaveResume(ctx context.Context, r *types.Resume) error
	GetResume(ctx context.Context, id string) (*types.Resume, error)

	SaveJobDescription(ctx context.Context, jd *types.JobDescription) error
	GetJobDescription(ctx context.Context, id string) (*types.JobDescription, error)

	SaveJob(ctx context.Context, job *types.Job) error
	GetJob(ctx context.Context, id string) (*types.Job, error)
	// UpdateJob applies fn to the stored job and saves the result
	UpdateJob(ctx context.Context, id string, fn func(*types.Job)) (*types.Job, error)

	Ping(ctx context.Context) error
	Close() error
}

// NewID returns a short random identifier such as "res-1a2b3c4d"
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// New builds the store selected by configuration
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, fmt.Sprintf("unknown store driver %q", cfg.Driver), nil)
	}
}

func notFound(kind, id string) error {
	return errors.NewNotFoundError(errors.ErrCodeNotFound, fmt.Sprintf("%s not found", kind), nil).
		WithContext("id", id)
}

func touch(job *types.Job) {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
}
