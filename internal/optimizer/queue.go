package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/observability"
)

// TypeOptimize is the queue task type shared by the API and the worker
const TypeOptimize = "resume:optimize"

// OptimizePayload identifies the stored job a task processes
type OptimizePayload struct {
	JobID string `json:"job_id"`
}

// NewOptimizeTask builds a queue task for jobID
func NewOptimizeTask(jobID string, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(OptimizePayload{JobID: jobID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOptimize, payload, opts...), nil
}

// RedisOpt converts the shared redis settings for asynq
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

func taskOptions(cfg config.QueueConfig) []asynq.Option {
	opts := []asynq.Option{asynq.MaxRetry(cfg.MaxRetry)}
	if cfg.QueueName != "" {
		opts = append(opts, asynq.Queue(cfg.QueueName))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, asynq.Timeout(cfg.Timeout))
	}
	return opts
}

// AsynqRunner enqueues jobs for a separate worker process
type AsynqRunner struct {
	client *asynq.Client
	opts   []asynq.Option
}

// NewAsynqRunner connects a queue client to redis
func NewAsynqRunner(redis config.RedisConfig, queue config.QueueConfig) *AsynqRunner {
	return &AsynqRunner{client: asynq.NewClient(RedisOpt(redis)), opts: taskOptions(queue)}
}

// Submit enqueues the job
func (r *AsynqRunner) Submit(ctx context.Context, jobID string) error {
	task, err := NewOptimizeTask(jobID, r.opts...)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeQueueFailed, "failed to encode optimization task", err)
	}
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		return errors.NewInternalError(errors.ErrCodeQueueFailed, "failed to enqueue optimization job", err).
			WithContext("job_id", jobID)
	}
	return nil
}

// Close releases the redis connection
func (r *AsynqRunner) Close() error {
	return r.client.Close()
}

// Worker consumes optimization tasks from the queue
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker creates a queue worker that hands each task to process
func NewWorker(redis config.RedisConfig, queue config.QueueConfig, process ProcessFunc, logger *errors.Logger) *Worker {
	queues := map[string]int{"default": 1}
	if queue.QueueName != "" {
		queues = map[string]int{queue.QueueName: 1}
	}
	server := asynq.NewServer(RedisOpt(redis), asynq.Config{
		Concurrency: queue.Concurrency,
		Queues:      queues,
		Logger:      asynqLogger{logger.Component("asynq")},
	})

	mux := asynq.NewServeMux()
	mux.Use(observability.AsynqMetricsMiddleware())
	mux.HandleFunc(TypeOptimize, HandleOptimizeTask(process))

	return &Worker{server: server, mux: mux}
}

// Run processes tasks until the process receives SIGTERM or SIGINT
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// HandleOptimizeTask adapts process to an asynq handler. Malformed payloads
// and jobs whose records are gone are not retried
func HandleOptimizeTask(process ProcessFunc) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p OptimizePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.JobID == "" {
			return fmt.Errorf("invalid optimize payload: %v: %w", err, asynq.SkipRetry)
		}
		err := process(ctx, p.JobID)
		if err != nil && (errors.IsType(err, errors.ErrorTypeNotFound) || errors.IsType(err, errors.ErrorTypeValidation)) {
			return fmt.Errorf("job %s: %w: %w", p.JobID, err, asynq.SkipRetry)
		}
		return err
	}
}

// asynqLogger routes queue server logs through the application logger
type asynqLogger struct {
	l *errors.Logger
}

func (a asynqLogger) Debug(args ...any) { a.l.Debug(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...any)  { a.l.Info(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...any)  { a.l.Warn(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...any) { a.l.Slog().Error(fmt.Sprint(args...)) }

func (a asynqLogger) Fatal(args ...any) {
	a.l.Slog().Error(fmt.Sprint(args...))
	os.Exit(1)
}
