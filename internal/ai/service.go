package ai

import (
	"context"
	"fmt"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// Result is a guarded rewrite and how it was produced
type Result struct {
	RewriteOutput
	// Engine is EngineGemini when any model section survived the guard
	Engine string
	Usage  *TokenUsage
	// Discarded names sections whose model rewrite failed the truth checks
	Discarded []string
}

// Service rewrites resumes with a model when one is configured and falls
// back to rules otherwise or on failure
type Service struct {
	primary  Rewriter
	provider *GeminiProvider
	rules    RuleRewriter
	logger   *errors.Logger
}

// NewService creates the rewrite service. Without an API key only the rule
// engine is used
func NewService(cfg *config.OperationAIConfig, logger *errors.Logger) (*Service, error) {
	svc := &Service{logger: logger}
	if cfg == nil || cfg.APIKey == "" {
		logger.Info("No model API key configured, using rule-based rewriting")
		return svc, nil
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model)

	switch cfg.Provider {
	case "gemini", "":
		provider, err := NewGeminiProvider(cfg, logger)
		if err != nil {
			return nil, err
		}
		svc.primary, svc.provider = provider, provider
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	return svc, nil
}

// NewServiceWithRewriter uses primary in front of the rule engine
func NewServiceWithRewriter(primary Rewriter, logger *errors.Logger) *Service {
	svc := &Service{primary: primary, logger: logger}
	if g, ok := primary.(*GeminiProvider); ok {
		svc.provider = g
	}
	return svc
}

// Rewrite never fails on model errors; it only returns the context error
// when ctx is done
func (s *Service) Rewrite(ctx context.Context, in RewriteInput) (Result, error) {
	fallback := rewriteWithRules(in)
	if s.primary == nil {
		return Result{RewriteOutput: fallback, Engine: EngineRules}, nil
	}

	out, usage, err := s.primary.Rewrite(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		s.logger.LogError(err, "Model rewrite failed, falling back to rules",
			"engine", s.primary.Name())
		return Result{RewriteOutput: fallback, Engine: EngineRules}, nil
	}

	guarded, kept, discarded := guardRewrite(in, out, fallback)
	if len(discarded) > 0 {
		s.logger.Warn("Discarded model rewrite sections that failed truth checks",
			"sections", discarded)
	}
	engine := s.primary.Name()
	if kept == 0 {
		engine = EngineRules
	}
	return Result{RewriteOutput: guarded, Engine: engine, Usage: usage, Discarded: discarded}, nil
}

// ModelEnabled reports whether a model is configured
func (s *Service) ModelEnabled() bool {
	return s.primary != nil
}

// GetModelInfo returns model availability, or nil in rules-only mode
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	if s.provider == nil {
		return nil
	}
	return s.provider.GetModelInfo(ctx)
}

// Stats returns breaker statistics for the stats endpoint
func (s *Service) Stats() map[string]any {
	if s.provider == nil {
		return map[string]any{"engine": EngineRules}
	}
	stats := s.provider.GetCircuitBreakerStats()
	stats["engine"] = EngineGemini
	return stats
}

// Close releases the model client
func (s *Service) Close() error {
	if s.provider != nil {
		return s.provider.Close()
	}
	return nil
}
