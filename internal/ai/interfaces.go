package ai

import (
	"context"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

// Engine names reported with a rewrite
const (
	EngineGemini = "gemini"
	EngineRules  = "rules"
)

// RewriteInput is what a rewriter needs to tailor a resume to a job description
type RewriteInput struct {
	Sections   *sections.Sections
	Extraction *jdextract.Extraction
	// Gaps is the pre-rewrite gap analysis that steers the rewrite
	Gaps scoring.Gaps
}

// RewriteOutput holds rewritten section bodies. An empty field means the
// section is kept unchanged
type RewriteOutput struct {
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	Skills     string `json:"skills"`
}

// Rewriter produces an ATS-oriented rewrite of a resume
type Rewriter interface {
	Rewrite(ctx context.Context, in RewriteInput) (RewriteOutput, *TokenUsage, error)
	Name() string
}

// TokenUsage represents token usage information from model responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
