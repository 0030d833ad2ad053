package optimizer

import (
	"context"
	"time"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/observability"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/store"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// Runner executes submitted jobs in the background
type Runner interface {
	Submit(ctx context.Context, jobID string) error
	Close() error
}

// Service creates optimization jobs and processes them against the store
type Service struct {
	store   store.Store
	engine  *Engine
	metrics *observability.Metrics
	timeout time.Duration
	logger  *errors.Logger
}

// NewService creates a job service. A zero timeout leaves jobs unbounded
func NewService(st store.Store, engine *Engine, metrics *observability.Metrics, timeout time.Duration, logger *errors.Logger) *Service {
	return &Service{store: st, engine: engine, metrics: metrics, timeout: timeout, logger: logger.Component("jobs")}
}

// Create validates that the resume and job description exist and stores a queued job
func (s *Service) Create(ctx context.Context, in types.OptimizeInput) (*types.Job, error) {
	if _, err := s.store.GetResume(ctx, in.ResumeID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetJobDescription(ctx, in.JDID); err != nil {
		return nil, err
	}

	job := &types.Job{
		ID:       store.NewID(types.JobPrefix),
		ResumeID: in.ResumeID,
		JDID:     in.JDID,
		Status:   types.JobQueued,
		Step:     "Queued",
	}
	if err := s.store.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Submit creates a job and hands it to runner. A job the runner refuses is
// marked failed
func (s *Service) Submit(ctx context.Context, runner Runner, in types.OptimizeInput) (*types.Job, error) {
	job, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := runner.Submit(ctx, job.ID); err != nil {
		s.fail(ctx, job.ID, err)
		return nil, err
	}
	return job, nil
}

// Process runs a stored job to completion. Pipeline failures are recorded on
// the job; the returned error reports them too so queue runners can retry
func (s *Service) Process(ctx context.Context, jobID string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	job, err := s.store.UpdateJob(ctx, jobID, func(j *types.Job) {
		j.Status = types.JobProcessing
		j.Progress = 0
		j.Error = ""
	})
	if err != nil {
		return err
	}
	done := s.metrics.JobStarted(ctx)

	result, err := s.run(ctx, job)
	if err != nil {
		done(string(types.JobFailed))
		s.metrics.RecordOptimization(ctx, "", 0, 0, false)
		s.fail(ctx, jobID, err)
		return err
	}

	_, err = s.store.UpdateJob(ctx, jobID, func(j *types.Job) {
		j.Status = types.JobCompleted
		j.Progress = 100
		j.Step = StepComplete
		j.Result = result
	})
	if err != nil {
		done(string(types.JobFailed))
		return err
	}
	done(string(types.JobCompleted))
	s.metrics.RecordOptimization(ctx, result.Rewriter, result.ScoreBefore, result.ScoreAfter, true)
	return nil
}

func (s *Service) run(ctx context.Context, job *types.Job) (*types.OptimizationResult, error) {
	resume, err := s.store.GetResume(ctx, job.ResumeID)
	if err != nil {
		return nil, err
	}
	jd, err := s.store.GetJobDescription(ctx, job.JDID)
	if err != nil {
		return nil, err
	}

	progress := func(pct int, step string) {
		if _, err := s.store.UpdateJob(ctx, job.ID, func(j *types.Job) {
			j.Progress = pct
			j.Step = step
		}); err != nil {
			s.logger.LogError(err, "Failed to record job progress", "job_id", job.ID)
		}
	}
	return s.engine.Optimize(ctx, resume, jd, progress)
}

func (s *Service) fail(ctx context.Context, jobID string, cause error) {
	s.logger.LogError(cause, "Optimization job failed", "job_id", jobID)

	// the job context may already be cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := s.store.UpdateJob(ctx, jobID, func(j *types.Job) {
		j.Status = types.JobFailed
		j.Error = errorMessage(cause)
	}); err != nil {
		s.logger.LogError(err, "Failed to mark job as failed", "job_id", jobID)
	}
}

func errorMessage(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
