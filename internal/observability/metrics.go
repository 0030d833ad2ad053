package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
)

// TokenUsage is the token count of one model call
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// Metrics holds the application instruments. Every method is a no-op on a
// nil receiver so callers never check whether observability is enabled
type Metrics struct {
	cfg config.CustomMetricsConfig

	// Rewrite metrics
	RewriteDuration metric.Float64Histogram
	RewriteRequests metric.Int64Counter
	RewriteErrors   metric.Int64Counter
	TokenUsage      metric.Int64Histogram

	// Business metrics
	ResumesUploaded        metric.Int64Counter
	JobDescriptions        metric.Int64Counter
	OptimizationsCompleted metric.Int64Counter
	ATSScore               metric.Int64Histogram
	DocumentSize           metric.Int64Histogram

	// Infrastructure metrics
	RateLimitHits  metric.Int64Counter
	JobsInProgress metric.Int64UpDownCounter
	JobDuration    metric.Float64Histogram
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter, cfg config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{cfg: cfg}
	var err error

	if m.RewriteDuration, err = meter.Float64Histogram("atsbuilder_rewrite_duration_seconds",
		metric.WithDescription("Time spent rewriting resume sections"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create rewrite duration metric: %w", err)
	}
	if m.RewriteRequests, err = meter.Int64Counter("atsbuilder_rewrite_requests_total",
		metric.WithDescription("Total number of rewrite requests by engine")); err != nil {
		return nil, fmt.Errorf("failed to create rewrite request metric: %w", err)
	}
	if m.RewriteErrors, err = meter.Int64Counter("atsbuilder_rewrite_errors_total",
		metric.WithDescription("Total number of failed rewrite requests")); err != nil {
		return nil, fmt.Errorf("failed to create rewrite error metric: %w", err)
	}
	if m.TokenUsage, err = meter.Int64Histogram("atsbuilder_ai_token_usage",
		metric.WithDescription("Token usage of model rewrites (input, output, total)"),
		metric.WithUnit("tokens")); err != nil {
		return nil, fmt.Errorf("failed to create token usage metric: %w", err)
	}

	if m.ResumesUploaded, err = meter.Int64Counter("atsbuilder_resumes_uploaded_total",
		metric.WithDescription("Total number of resumes ingested")); err != nil {
		return nil, fmt.Errorf("failed to create resumes uploaded metric: %w", err)
	}
	if m.JobDescriptions, err = meter.Int64Counter("atsbuilder_job_descriptions_total",
		metric.WithDescription("Total number of job descriptions extracted")); err != nil {
		return nil, fmt.Errorf("failed to create job descriptions metric: %w", err)
	}
	if m.OptimizationsCompleted, err = meter.Int64Counter("atsbuilder_optimizations_total",
		metric.WithDescription("Total number of finished optimizations")); err != nil {
		return nil, fmt.Errorf("failed to create optimizations metric: %w", err)
	}
	if m.ATSScore, err = meter.Int64Histogram("atsbuilder_ats_score",
		metric.WithDescription("Keyword compatibility score before and after optimization")); err != nil {
		return nil, fmt.Errorf("failed to create ATS score metric: %w", err)
	}
	if m.DocumentSize, err = meter.Int64Histogram("atsbuilder_document_size_bytes",
		metric.WithDescription("Size of ingested documents"),
		metric.WithUnit("By")); err != nil {
		return nil, fmt.Errorf("failed to create document size metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter("atsbuilder_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits")); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}
	if m.JobsInProgress, err = meter.Int64UpDownCounter("atsbuilder_jobs_in_progress",
		metric.WithDescription("Optimization jobs currently running")); err != nil {
		return nil, fmt.Errorf("failed to create jobs in progress metric: %w", err)
	}
	if m.JobDuration, err = meter.Float64Histogram("atsbuilder_job_duration_seconds",
		metric.WithDescription("Wall time of optimization jobs"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create job duration metric: %w", err)
	}

	return m, nil
}

// RecordRewrite records one rewrite call
func (m *Metrics) RecordRewrite(ctx context.Context, engine string, duration time.Duration, usage *TokenUsage, err error) {
	if m == nil || !m.cfg.AIOperations.Enabled {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.Bool("success", err == nil),
	)
	m.RewriteRequests.Add(ctx, 1, attrs)
	if err != nil {
		m.RewriteErrors.Add(ctx, 1, attrs)
	}
	if m.cfg.AIOperations.TrackDuration {
		m.RewriteDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if usage != nil && m.cfg.AIOperations.TrackTokenUsage {
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			m.TokenUsage.Record(ctx, tt.value, metric.WithAttributes(
				attribute.String("engine", engine),
				attribute.String("token_type", tt.tokenType)))
		}
	}
}

// RecordResumeUploaded counts an ingested resume of the given document kind
func (m *Metrics) RecordResumeUploaded(ctx context.Context, kind string, size int64) {
	if m == nil || !m.cfg.BusinessMetrics.Enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	m.ResumesUploaded.Add(ctx, 1, attrs)
	if m.cfg.BusinessMetrics.TrackContentSizes {
		m.DocumentSize.Record(ctx, size, attrs)
	}
}

// RecordJobDescription counts an extracted job description by source ("text" or "url")
func (m *Metrics) RecordJobDescription(ctx context.Context, source string, terms int) {
	if m == nil || !m.cfg.BusinessMetrics.Enabled {
		return
	}
	m.JobDescriptions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("empty", terms == 0)))
}

// RecordOptimization counts a finished optimization and its scores
func (m *Metrics) RecordOptimization(ctx context.Context, engine string, before, after int, success bool) {
	if m == nil || !m.cfg.BusinessMetrics.Enabled {
		return
	}
	m.OptimizationsCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.Bool("success", success)))
	if success && m.cfg.BusinessMetrics.TrackScores {
		m.ATSScore.Record(ctx, int64(before), metric.WithAttributes(attribute.String("stage", "before")))
		m.ATSScore.Record(ctx, int64(after), metric.WithAttributes(attribute.String("stage", "after")))
	}
}

// RecordRateLimitHit counts a rejected request by limiter type
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil || !m.cfg.Infrastructure.Enabled || !m.cfg.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}

// JobStarted marks a job as running and returns the function that records its end
func (m *Metrics) JobStarted(ctx context.Context) func(status string) {
	if m == nil || !m.cfg.Infrastructure.Enabled || !m.cfg.Infrastructure.TrackJobs {
		return func(string) {}
	}
	start := time.Now()
	m.JobsInProgress.Add(ctx, 1)
	return func(status string) {
		m.JobsInProgress.Add(ctx, -1)
		m.JobDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("status", status)))
	}
}
