package ai

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
)

func testLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

type fakeRewriter struct {
	out   RewriteOutput
	err   error
	calls int
}

func (f *fakeRewriter) Name() string { return "fake" }

func (f *fakeRewriter) Rewrite(context.Context, RewriteInput) (RewriteOutput, *TokenUsage, error) {
	f.calls++
	return f.out, &TokenUsage{TotalTokens: 42}, f.err
}

func TestService_RulesOnlyWithoutAPIKey(t *testing.T) {
	svc, err := NewService(&config.OperationAIConfig{Provider: "gemini"}, testLogger())
	require.NoError(t, err)
	assert.False(t, svc.ModelEnabled())
	assert.Nil(t, svc.GetModelInfo(context.Background()))
	assert.Equal(t, EngineRules, svc.Stats()["engine"])

	res, err := svc.Rewrite(context.Background(), backendInput())
	require.NoError(t, err)
	assert.Equal(t, EngineRules, res.Engine)
	assert.Equal(t, rewriteWithRules(backendInput()), res.RewriteOutput)
}

func TestService_UnsupportedProvider(t *testing.T) {
	_, err := NewService(&config.OperationAIConfig{Provider: "openai", APIKey: "k"}, testLogger())
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func TestService_FallsBackOnModelError(t *testing.T) {
	fake := &fakeRewriter{err: stderrors.New("boom")}
	svc := NewServiceWithRewriter(fake, testLogger())

	res, err := svc.Rewrite(context.Background(), backendInput())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, EngineRules, res.Engine)
	assert.Equal(t, rewriteWithRules(backendInput()), res.RewriteOutput)
}

func TestService_UsesGuardedModelOutput(t *testing.T) {
	fake := &fakeRewriter{out: RewriteOutput{
		Summary:    "Backend engineer with 6 years of experience building Go APIs.",
		Experience: "Acme Corp 2019-2023\n- Built the billing API in Go\n- Tuned PostgreSQL",
		Skills:     "Go, PostgreSQL, Python",
	}}
	svc := NewServiceWithRewriter(fake, testLogger())

	res, err := svc.Rewrite(context.Background(), backendInput())
	require.NoError(t, err)
	assert.Equal(t, "fake", res.Engine)
	assert.Empty(t, res.Discarded)
	assert.Equal(t, int64(42), res.Usage.TotalTokens)
	assert.Equal(t, fake.out, res.RewriteOutput)
}

func TestService_AllSectionsRejectedReportsRules(t *testing.T) {
	fake := &fakeRewriter{out: RewriteOutput{
		Summary:    "Kubernetes expert.",
		Experience: "- Cut costs 90%",
		Skills:     "Kubernetes",
	}}
	svc := NewServiceWithRewriter(fake, testLogger())

	res, err := svc.Rewrite(context.Background(), backendInput())
	require.NoError(t, err)
	assert.Equal(t, EngineRules, res.Engine)
	assert.Equal(t, []string{"summary", "experience", "skills"}, res.Discarded)
}

func TestService_ReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewServiceWithRewriter(&fakeRewriter{err: context.Canceled}, testLogger())

	_, err := svc.Rewrite(ctx, backendInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func intPtr(n int) *int             { return &n }
func boolPtr(b bool) *bool          { return &b }
func float32Ptr(f float32) *float32 { return &f }

func testOperationConfig() *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-test",
		MaxRetries:       intPtr(2),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 20,
			TotalTokenCount:      120,
		},
	}
}

func TestGeminiProvider_Rewrite(t *testing.T) {
	var gotPrompt string
	var gotCfg *genai.GenerateContentConfig
	generate := func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		assert.Equal(t, "gemini-test", model)
		gotPrompt = contents[0].Parts[0].Text
		gotCfg = cfg
		return textResponse(`{"summary":"S","experience":"E","skills":"K"}`), nil
	}
	g, err := newGeminiProvider(testOperationConfig(), generate, testLogger())
	require.NoError(t, err)

	in := backendInput()
	in.Gaps = scoring.Gaps{
		Critical:    []string{"kubernetes"},
		WeakBullets: []scoring.WeakBullet{{Index: 1, Text: "responsible for the billing API in Go", Issues: []string{scoring.IssueMissingActionVerb}}},
	}
	out, usage, err := g.Rewrite(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, RewriteOutput{Summary: "S", Experience: "E", Skills: "K"}, out)
	assert.Equal(t, int64(120), usage.TotalTokens)
	assert.Equal(t, "application/json", gotCfg.ResponseMIMEType)
	require.NotNil(t, gotCfg.SystemInstruction)
	assert.Contains(t, gotCfg.SystemInstruction.Parts[0].Text, "NEVER invent")
	assert.Contains(t, gotPrompt, "**Target role:** Backend Engineer")
	assert.Contains(t, gotPrompt, "**Keywords missing from the resume:** kubernetes")
	assert.Contains(t, gotPrompt, "- responsible for the billing API in Go (missing_action_verb)")
	assert.Contains(t, gotPrompt, "Python, PostgreSQL, Go")
}

func TestGeminiProvider_CustomPrompts(t *testing.T) {
	cfg := testOperationConfig()
	cfg.CustomPrompts.User = "role=%s seniority=%s p=%s h=%s c=%s b=%s s=%s e=%s k=%s"
	cfg.CustomPrompts.System = "be brief"
	cfg.UseSystemPrompts = boolPtr(false)

	var gotPrompt string
	generate := func(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotPrompt = contents[0].Parts[0].Text
		assert.Nil(t, cfg.SystemInstruction)
		return textResponse(`{"summary":"","experience":"","skills":""}`), nil
	}
	g, err := newGeminiProvider(cfg, generate, testLogger())
	require.NoError(t, err)

	_, _, err = g.Rewrite(context.Background(), RewriteInput{})
	require.NoError(t, err)
	assert.Equal(t, "be brief\n\nrole=not specified seniority=not specified p=none h=none c=none b= s= e= k=", gotPrompt)
}

func TestGeminiProvider_InvalidReplies(t *testing.T) {
	replies := map[string]string{
		"not json":    "Here is your resume!",
		"wrong type":  `{"summary": 1, "experience": "", "skills": ""}`,
		"missing key": `{"summary": "S"}`,
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			generate := func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return textResponse(reply), nil
			}
			g, err := newGeminiProvider(testOperationConfig(), generate, testLogger())
			require.NoError(t, err)

			_, _, err = g.Rewrite(context.Background(), backendInput())
			assert.True(t, errors.HasCode(err, errors.ErrCodeAIInvalidReply), "got %v", err)
		})
	}
}

func TestGeminiProvider_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	generate := func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, &googleapi.Error{Code: http.StatusBadRequest}
	}
	g, err := newGeminiProvider(testOperationConfig(), generate, testLogger())
	require.NoError(t, err)

	_, _, err = g.Rewrite(context.Background(), backendInput())
	assert.True(t, errors.HasCode(err, errors.ErrCodeAIServiceFailed))
	assert.Equal(t, 1, calls)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", stderrors.New("bad input"), false},
		{"network", &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}, true},
		{"googleapi unavailable", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"googleapi bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai rate limited", genai.APIError{Code: http.StatusTooManyRequests}, true},
		{"genai forbidden", genai.APIError{Code: http.StatusForbidden}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoff(attempt)
		assert.Positive(t, d)
		assert.LessOrEqual(t, d, maxBackoff)
	}
}

func TestListOrNone(t *testing.T) {
	assert.Equal(t, "none", listOrNone(nil))
	assert.Equal(t, "a, b", listOrNone([]string{"a", "b"}))
	long := strings.Split("a b c d e f g h i j k l", " ")
	assert.Equal(t, "a, b, c, d, e, f, g, h, i, j", listOrNone(long))
}
