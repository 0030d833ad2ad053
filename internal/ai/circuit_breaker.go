package ai

import (
	"fmt"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// AICircuitBreaker guards content generation calls for one operation.
// A nil breaker passes calls straight through
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model availability checks
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name, operationType string, cfg config.CircuitBreakerConfig, readyToTrip func(gobreaker.Counts) bool, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

// NewAICircuitBreaker returns a breaker for operationType, or nil when disabled
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	cbCfg := cfg.CircuitBreaker
	if !cbCfg.Enabled {
		return nil
	}
	trip := func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 {
			return false
		}
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cbCfg.MinRequests && failureRatio >= cbCfg.FailureThreshold
	}
	settings := breakerSettings(fmt.Sprintf("AI-%s", operationType), operationType, cbCfg, trip, logger)
	return &AICircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings)}
}

// NewModelCircuitBreaker returns a breaker for model checks, or nil when disabled
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}
	// health checks only trip on sustained failure
	trip := func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 {
			return false
		}
		return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
	}
	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", operationType), operationType, cfg.CircuitBreaker, trip, logger)
	return &ModelCircuitBreaker{cb: gobreaker.NewCircuitBreaker[*genai.Model](settings)}
}

// Execute runs fn through the breaker
func (b *AICircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// ExecuteModel runs fn through the breaker
func (b *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

func breakerStats[T any](cb *gobreaker.CircuitBreaker[T]) map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.Name(),
		"state":   cb.State().String(),
		"counts":  cb.Counts(),
		"enabled": true,
	}
}

// GetStats returns circuit breaker statistics
func (b *AICircuitBreaker) GetStats() map[string]any {
	if b == nil {
		return breakerStats[*genai.GenerateContentResponse](nil)
	}
	return breakerStats(b.cb)
}

// GetModelStats returns model circuit breaker statistics
func (b *ModelCircuitBreaker) GetModelStats() map[string]any {
	if b == nil {
		return breakerStats[*genai.Model](nil)
	}
	return breakerStats(b.cb)
}

// IsHealthy reports whether the breaker is closed. A nil breaker is healthy
func (b *AICircuitBreaker) IsHealthy() bool {
	return b == nil || b.cb == nil || b.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the model breaker is closed
func (b *ModelCircuitBreaker) IsModelHealthy() bool {
	return b == nil || b.cb == nil || b.cb.State() == gobreaker.StateClosed
}
