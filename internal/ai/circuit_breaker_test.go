package ai

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
)

func breakerConfig(enabled bool) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

func TestAICircuitBreaker_Disabled(t *testing.T) {
	cb := NewAICircuitBreaker("rewrite", breakerConfig(false), testLogger())
	require.Nil(t, cb)

	calls := 0
	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
			calls++
			return nil, stderrors.New("boom")
		})
		assert.EqualError(t, err, "boom")
	}
	assert.Equal(t, 5, calls)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetStats())
}

func TestAICircuitBreaker_Trips(t *testing.T) {
	cb := NewAICircuitBreaker("rewrite", breakerConfig(true), testLogger())
	require.NotNil(t, cb)

	stats := cb.GetStats()
	assert.Equal(t, "AI-rewrite", stats["name"])
	assert.Equal(t, "closed", stats["state"])
	assert.True(t, cb.IsHealthy())

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, stderrors.New("unavailable")
		})
	}
	assert.False(t, cb.IsHealthy())
	assert.Equal(t, "open", cb.GetStats()["state"])

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return &genai.GenerateContentResponse{}, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestAICircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := NewAICircuitBreaker("rewrite", breakerConfig(true), testLogger())
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, stderrors.New("unavailable")
		})
	}
	assert.True(t, cb.IsHealthy())
}

func TestModelCircuitBreaker(t *testing.T) {
	assert.Nil(t, NewModelCircuitBreaker("rewrite", breakerConfig(false), testLogger()))

	cb := NewModelCircuitBreaker("rewrite", breakerConfig(true), testLogger())
	require.NotNil(t, cb)
	assert.Equal(t, "AI-Model-rewrite", cb.GetModelStats()["name"])

	// four failures are not enough for the model breaker
	for i := 0; i < 4; i++ {
		_, _ = cb.ExecuteModel(func() (*genai.Model, error) { return nil, stderrors.New("down") })
	}
	assert.True(t, cb.IsModelHealthy())

	_, _ = cb.ExecuteModel(func() (*genai.Model, error) { return nil, stderrors.New("down") })
	assert.False(t, cb.IsModelHealthy())
}
