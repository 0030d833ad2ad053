package optimizer

import (
	"context"
	"sync"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// ProcessFunc processes one stored job
type ProcessFunc func(ctx context.Context, jobID string) error

// LocalRunner processes jobs on a fixed pool of goroutines in this process
type LocalRunner struct {
	jobs    chan string
	process ProcessFunc
	logger  *errors.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewLocalRunner starts concurrency workers. Up to backlog jobs may wait
// for a free worker before Submit starts refusing new ones
func NewLocalRunner(concurrency, backlog int, process ProcessFunc, logger *errors.Logger) *LocalRunner {
	if concurrency <= 0 {
		concurrency = 1
	}
	if backlog < 0 {
		backlog = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &LocalRunner{
		jobs:    make(chan string, backlog),
		process: process,
		logger:  logger.Component("local-runner"),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < concurrency; i++ {
		r.wg.Add(1)
		go r.work()
	}
	return r
}

func (r *LocalRunner) work() {
	defer r.wg.Done()
	for id := range r.jobs {
		if err := r.process(r.ctx, id); err != nil {
			r.logger.Debug("Job finished with error", "job_id", id, "error", err.Error())
		}
	}
}

// Submit queues a job. It fails with QUEUE_FAILED when the backlog is full
// or the runner is closed
func (r *LocalRunner) Submit(ctx context.Context, jobID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.NewInternalError(errors.ErrCodeQueueFailed, "job runner is closed", nil)
	}
	select {
	case r.jobs <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.NewInternalError(errors.ErrCodeQueueFailed, "too many optimization jobs in progress", nil).
			WithContext("job_id", jobID)
	}
}

// Close stops accepting jobs, lets queued jobs finish and waits for the workers
func (r *LocalRunner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
	r.cancel()
	return nil
}
