package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

const (
	modelCheckTimeout = 10 * time.Second
	maxBackoff        = 30 * time.Second
	maxPromptBullets  = 5
	maxPromptKeywords = 10
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiProvider rewrites resumes with Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	generate       generateFunc
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	schema         *gojsonschema.Schema
	logger         *errors.Logger
}

var _ Rewriter = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini rewriter for the given operation configuration
func NewGeminiProvider(cfg *config.OperationAIConfig, logger *errors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Gemini API key is not configured", nil)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create Gemini client", err)
	}
	g, err := newGeminiProvider(cfg, client.Models.GenerateContent, logger)
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

func newGeminiProvider(cfg *config.OperationAIConfig, generate generateFunc, logger *errors.Logger) (*GeminiProvider, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(replySchema))
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "invalid rewrite reply schema", err)
	}
	return &GeminiProvider{
		generate:       generate,
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker("rewrite", cfg, logger),
		modelBreaker:   NewModelCircuitBreaker("rewrite", cfg, logger),
		schema:         schema,
		logger:         logger,
	}, nil
}

func (g *GeminiProvider) Name() string { return EngineGemini }

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}
	if g.client == nil {
		info.Error = "no model client"
		return info
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// Rewrite asks the model for rewritten summary, experience and skills sections
func (g *GeminiProvider) Rewrite(ctx context.Context, in RewriteInput) (RewriteOutput, *TokenUsage, error) {
	systemPrompt, userPrompt := g.buildPrompts(in)
	resumeLength := 0
	if in.Sections != nil {
		resumeLength = len(in.Sections.Text())
	}
	return executeAIOperation[RewriteOutput](
		g,
		ctx,
		"rewrite_resume",
		userPrompt,
		systemPrompt,
		g.buildRewriteSchema(),
		attribute.Int("input.resume_length", resumeLength),
		attribute.Int("input.critical_gaps", len(in.Gaps.Critical)),
	)
}

func (g *GeminiProvider) buildPrompts(in RewriteInput) (string, string) {
	s := in.Sections
	if s == nil {
		s = sections.New()
	}
	summary, _ := s.Get(sections.Summary)
	experience, _ := s.Get(sections.Experience)
	skills, _ := s.Get(sections.Skills)

	role, seniority := "not specified", "not specified"
	var primary, hard []string
	if ex := in.Extraction; ex != nil {
		if ex.Role != "" {
			role = ex.Role
		}
		if ex.Seniority != "" {
			seniority = string(ex.Seniority)
		}
		primary, hard = ex.Keywords.Primary, ex.HardSkills
	}

	var bullets []string
	for i, b := range in.Gaps.WeakBullets {
		if i == maxPromptBullets {
			break
		}
		bullets = append(bullets, fmt.Sprintf("- %s (%s)", b.Text, strings.Join(b.Issues, ", ")))
	}

	user := fmt.Sprintf(resolvePrompt(g.config.CustomPrompts.User, DefaultUserPrompt),
		role,
		seniority,
		listOrNone(primary),
		listOrNone(hard),
		listOrNone(in.Gaps.Critical),
		strings.Join(bullets, "\n"),
		summary,
		experience,
		skills,
	)
	return resolvePrompt(g.config.CustomPrompts.System, DefaultSystemPrompt), user
}

func listOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	if len(list) > maxPromptKeywords {
		list = list[:maxPromptKeywords]
	}
	return strings.Join(list, ", ")
}

// buildRewriteSchema creates the generation config for rewrite requests
func (g *GeminiProvider) buildRewriteSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary":    {Type: genai.TypeString},
				"experience": {Type: genai.TypeString},
				"skills":     {Type: genai.TypeString},
			},
			Required: []string{"summary", "experience", "skills"},
		},
	}
	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := 0
	if g.config.MaxRetries != nil {
		maxRetries = *g.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// backoff doubles from one second with up to 10% jitter, capped at 30 seconds
func backoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(float64(base)*0.1)+1)); err == nil {
		jitter = time.Duration(n.Int64())
	}
	return min(base+jitter, maxBackoff)
}

// isRetryableError reports whether an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}
	return false
}

// executeAIOperation runs a model call with tracing, circuit breaking and
// schema-checked JSON parsing
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("atsbuilder.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
	)
	span.SetAttributes(spanAttributes...)

	useSystem := g.config.UseSystemPrompts == nil || *g.config.UseSystemPrompts
	if useSystem && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	} else if systemPrompt != "" {
		userPrompt = systemPrompt + "\n\n" + userPrompt
	}

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.generate(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if stderrors.Is(err, context.DeadlineExceeded) {
			return output, nil, errors.NewAIError(errors.ErrCodeAITimeout, "Model call timed out for "+operationName, err)
		}
		return output, nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	text := result.Text()
	verdict, err := g.schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, errors.NewAIError(errors.ErrCodeAIInvalidReply, "Model reply is not JSON for "+operationName, err)
	}
	if !verdict.Valid() {
		var problems []string
		for _, e := range verdict.Errors() {
			problems = append(problems, e.String())
		}
		err := fmt.Errorf("%s", strings.Join(problems, "; "))
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, errors.NewAIError(errors.ErrCodeAIInvalidReply, "Model reply does not match the expected shape for "+operationName, err)
	}
	if err := json.Unmarshal([]byte(text), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, errors.NewAIError(errors.ErrCodeAIInvalidReply, "Failed to parse model reply for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close releases provider resources
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
