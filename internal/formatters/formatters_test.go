package formatters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

func TestRegistry_Format(t *testing.T) {
	s := sections.New(
		sections.Section{Name: sections.Summary, Body: "Backend engineer"},
		sections.Section{Name: sections.Skills, Body: "Go, SQL"},
	)
	ex := &jdextract.Extraction{
		Role:       "Backend Engineer",
		Seniority:  jdextract.SeniorityMid,
		HardSkills: []string{"go"},
		Keywords:   jdextract.Keywords{Primary: []string{"go"}, Secondary: []string{"sql"}},
	}
	score := &types.ScoreOutput{
		Role: "Backend Engineer",
		Report: scoring.Report{
			Score:    72,
			Keywords: scoring.Result{MatchedKeywords: []string{"go"}},
		},
		Gaps: scoring.Gaps{Critical: []string{"kubernetes"}},
	}
	result := &types.OptimizationResult{
		Optimized:     s,
		Rewriter:      "rules",
		ScoreBefore:   40,
		ScoreAfter:    65,
		Changes:       []types.SectionChange{{Section: sections.Skills}},
		Improvements:  []string{"+ Keyword score improved from 40 to 65"},
		RemainingGaps: []string{"Missing: kubernetes"},
	}

	tests := []struct {
		name   string
		data   any
		format string
		want   []string
	}{
		{"sections text", s, "text", []string{"=== RESUME SECTIONS ===", "summary:\nBackend engineer"}},
		{"sections markdown", s, "markdown", []string{"# Resume Sections", "## skills\n\nGo, SQL"}},
		{"extraction text", ex, "text", []string{"Role: Backend Engineer", "Primary Keywords:\n- go", "Tools:\n- (none)"}},
		{"score markdown", score, "markdown", []string{"Score: 72/100", "## Critical Gaps\n\n- kubernetes"}},
		{"optimization text", result, "text", []string{"Score: 65/100 (was 40)", "Rewriter: rules", "- skills", "Missing: kubernetes"}},
		{"json fallback", result, "json", []string{`"atsScore": 65`, `"rewriter": "rules"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := GlobalRegistry.Format(tt.data, tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			assert.True(t, strings.HasSuffix(out, "\n") || tt.format == "json")
		})
	}
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := NewFormatterRegistry().Format(&jdextract.Extraction{}, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestRegistry_SupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, NewFormatterRegistry().GetSupportedFormats())
}

func TestFormatter_WrongType(t *testing.T) {
	_, err := (&ScoreFormatter{}).Format("not a score")
	require.Error(t, err)
}
