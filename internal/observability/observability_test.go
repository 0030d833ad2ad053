package observability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
)

func allMetrics() config.CustomMetricsConfig {
	return config.CustomMetricsConfig{
		AIOperations:    config.AIOperationsMetricsConfig{Enabled: true, TrackDuration: true, TrackTokenUsage: true},
		BusinessMetrics: config.BusinessMetricsConfig{Enabled: true, TrackScores: true, TrackContentSizes: true},
		Infrastructure:  config.InfrastructureMetricsConfig{Enabled: true, TrackRateLimits: true, TrackJobs: true},
	}
}

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "got %T", agg)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"), allMetrics())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRewrite(ctx, "gemini", time.Second, &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil)
	m.RecordRewrite(ctx, "gemini", time.Second, nil, stderrors.New("quota"))
	m.RecordResumeUploaded(ctx, "pdf", 2048)
	m.RecordJobDescription(ctx, "text", 12)
	m.RecordOptimization(ctx, "rules", 40, 70, true)
	m.RecordRateLimitHit(ctx, "ip")
	done := m.JobStarted(ctx)
	done("completed")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["atsbuilder_rewrite_requests_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["atsbuilder_rewrite_errors_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["atsbuilder_resumes_uploaded_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["atsbuilder_job_descriptions_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["atsbuilder_optimizations_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["atsbuilder_rate_limit_hits_total"]))
	assert.Equal(t, int64(0), sumOf(t, got["atsbuilder_jobs_in_progress"]))
	assert.Contains(t, got, "atsbuilder_ats_score")
	assert.Contains(t, got, "atsbuilder_ai_token_usage")
	assert.Contains(t, got, "atsbuilder_job_duration_seconds")
}

func TestMetrics_DisabledGroups(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"), config.CustomMetricsConfig{})
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRewrite(ctx, "rules", time.Millisecond, nil, nil)
	m.RecordResumeUploaded(ctx, "txt", 10)
	m.RecordRateLimitHit(ctx, "ip")
	m.JobStarted(ctx)("failed")

	assert.Empty(t, collect(t, reader))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordRewrite(ctx, "rules", time.Second, nil, nil)
		m.RecordResumeUploaded(ctx, "pdf", 1)
		m.RecordJobDescription(ctx, "url", 0)
		m.RecordOptimization(ctx, "rules", 1, 2, true)
		m.RecordRateLimitHit(ctx, "api_key")
		m.JobStarted(ctx)("completed")
	})
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{ServiceName: "atsbuilder"})
	require.NoError(t, err)
	assert.Nil(t, om.GetMetrics())
	assert.NotNil(t, om.Tracer("test"))
	assert.NoError(t, om.Shutdown(context.Background()))
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.ServiceVersion = ""
	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "atsbuilder", got.ServiceName)
	assert.Equal(t, "1.2.3", got.ServiceVersion)
	assert.Equal(t, "/metrics", got.Prometheus.Endpoint)
	assert.True(t, got.CustomMetrics.Infrastructure.TrackJobs)
}

func TestAsynqMetricsMiddleware(t *testing.T) {
	const taskType = "test:metrics"
	handler := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		if string(task.Payload()) == "fail" {
			return stderrors.New("failed")
		}
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, handler.ProcessTask(ctx, asynq.NewTask(taskType, []byte("ok"))))
	require.Error(t, handler.ProcessTask(ctx, asynq.NewTask(taskType, []byte("fail"))))

	assert.Equal(t, 2.0, testutil.ToFloat64(taskProcessedTotal.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(taskFailedTotal.WithLabelValues(taskType)))
	assert.Equal(t, 0.0, testutil.ToFloat64(taskInProgress.WithLabelValues(taskType)))
}
