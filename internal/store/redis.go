package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

const (
	defaultKeyPrefix = "atsbuilder:"
	maxUpdateRetries = 5
)

// Redis stores records as JSON values under prefixed keys
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the server described by cfg.Redis
func NewRedis(cfg config.StoreConfig) (*Redis, error) {
	if cfg.Redis.Addr == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "redis store requires an address", nil)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewRedisWithClient(client, cfg.Redis.KeyPrefix, cfg.TTL), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(kind, id string) string {
	return r.prefix + kind + ":" + id
}

func (r *Redis) put(ctx context.Context, kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to encode %s", kind), err)
	}
	if err := r.client.Set(ctx, r.key(kind, id), data, r.ttl).Err(); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to save %s", kind), err).
			WithContext("id", id)
	}
	return nil
}

func (r *Redis) get(ctx context.Context, kind, id string, v any) error {
	data, err := r.client.Get(ctx, r.key(kind, id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return notFound(kind, id)
	}
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to load %s", kind), err).
			WithContext("id", id)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, fmt.Sprintf("stored %s is corrupt", kind), err).
			WithContext("id", id)
	}
	return nil
}

func (r *Redis) SaveResume(ctx context.Context, res *types.Resume) error {
	return r.put(ctx, "resume", res.ID, res)
}

func (r *Redis) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	var res types.Resume
	if err := r.get(ctx, "resume", id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Redis) SaveJobDescription(ctx context.Context, jd *types.JobDescription) error {
	return r.put(ctx, "jd", jd.ID, jd)
}

func (r *Redis) GetJobDescription(ctx context.Context, id string) (*types.JobDescription, error) {
	var jd types.JobDescription
	if err := r.get(ctx, "jd", id, &jd); err != nil {
		return nil, err
	}
	return &jd, nil
}

func (r *Redis) SaveJob(ctx context.Context, job *types.Job) error {
	touch(job)
	return r.put(ctx, "job", job.ID, job)
}

func (r *Redis) GetJob(ctx context.Context, id string) (*types.Job, error) {
	var job types.Job
	if err := r.get(ctx, "job", id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob runs fn inside an optimistic WATCH transaction, retrying when
// another writer changed the job first
func (r *Redis) UpdateJob(ctx context.Context, id string, fn func(*types.Job)) (*types.Job, error) {
	key := r.key("job", id)
	var updated types.Job

	txf := func(tx *redis.Tx) error {
		var job types.Job
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &job); err != nil {
			return err
		}
		fn(&job)
		touch(&job)
		out, err := json.Marshal(&job)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = job
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return &updated, nil
		case stderrors.Is(err, redis.TxFailedErr):
			continue
		case stderrors.Is(err, redis.Nil):
			return nil, notFound("job", id)
		default:
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to update job", err).
				WithContext("id", id)
		}
	}
	return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "job update kept conflicting", nil).
		WithContext("id", id)
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewStorageError(errors.ErrCodeStoreFailed, "redis is unreachable", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
