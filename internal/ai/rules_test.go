package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

func backendInput() RewriteInput {
	return RewriteInput{
		Sections: sections.New(
			sections.Section{Name: sections.Summary, Body: "6 years of experience. Backend engineer building APIs with Go."},
			sections.Section{Name: sections.Experience, Body: "Acme Corp 2019-2023\n- responsible for the billing API in Go\n• worked on PostgreSQL tuning"},
			sections.Section{Name: sections.Skills, Body: "Python, PostgreSQL, Go"},
		),
		Extraction: &jdextract.Extraction{
			Role:       "Backend Engineer",
			Seniority:  jdextract.SeniorityMid,
			HardSkills: []string{"go", "postgresql", "kubernetes"},
			Keywords: jdextract.Keywords{
				Primary:   []string{"go", "kubernetes"},
				Secondary: []string{"postgresql"},
			},
		},
	}
}

func TestRuleRewriter(t *testing.T) {
	out, usage, err := RuleRewriter{}.Rewrite(context.Background(), backendInput())
	require.NoError(t, err)
	assert.Nil(t, usage)

	assert.Equal(t, "Results-driven professional with 6+ years of experience specializing in Go. "+
		"Backend engineer building APIs with Go.\nCore competencies: Go, PostgreSQL", out.Summary)
	assert.Equal(t, "Acme Corp 2019-2023\n- Managed the billing API in Go\n- Developed PostgreSQL tuning", out.Experience)
	assert.Equal(t, "PostgreSQL, Go, Python", out.Skills)
	assert.NotContains(t, out.Summary+out.Experience+out.Skills, "ubernetes", "missing skills are never added")
}

func TestRuleRewriter_GeneratesMissingSummary(t *testing.T) {
	in := RewriteInput{
		Sections: sections.New(sections.Section{Name: sections.Skills, Body: "Go, Docker"}),
		Extraction: &jdextract.Extraction{
			Role:       "Platform Engineer",
			HardSkills: []string{"go", "docker", "terraform"},
		},
	}
	out := rewriteWithRules(in)
	assert.Equal(t, "Experienced Platform Engineer with expertise in Go and Docker.\nCore competencies: Go, Docker", out.Summary)
	assert.Empty(t, out.Experience)
	assert.Equal(t, "Go, Docker", out.Skills)
}

func TestRuleRewriter_NilInput(t *testing.T) {
	out := rewriteWithRules(RewriteInput{})
	assert.Equal(t, "Experienced professional.", out.Summary)
	assert.Empty(t, out.Experience)
	assert.Empty(t, out.Skills)
}

func TestRewriteBullet(t *testing.T) {
	tests := []struct {
		name     string
		bullet   string
		keywords []string
		want     string
	}{
		{"weak opener", "responsible for the billing API", nil, "Managed the billing API"},
		{"replacement verb counts as action verb", "helped with onboarding docs", nil, "Contributed to onboarding docs"},
		{"strong bullet unchanged", "Led a team of 5", nil, "Led a team of 5"},
		{"keyword lead", "migration of 12 services to Kubernetes", []string{"kubernetes"}, "Applied kubernetes expertise to migration of 12 services to Kubernetes"},
		{"acronym keeps case", "API design reviews", nil, "Developed API design reviews"},
		{"short weak opener", "did QA", nil, "Executed QA"},
		{"opener needs a word boundary", "didactic sessions", nil, "Developed didactic sessions"},
		{"overlong rewrite rejected", "ran CI", nil, "ran CI"},
		{"empty", "  ", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteBullet(tt.bullet, tt.keywords))
		})
	}
}

func TestValidRewrite(t *testing.T) {
	tests := []struct {
		original, rewritten string
		want                bool
	}{
		{"cut costs 30%", "Cut costs 30%", true},
		{"cut costs 30%", "Cut costs 30% and 2x", false},
		{"saved $5,000", "Saved $5,000 yearly", true},
		{"a", "abc", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validRewrite(tt.original, tt.rewritten), "%q -> %q", tt.original, tt.rewritten)
	}
}

func TestRewriteSkills(t *testing.T) {
	tests := []struct {
		name   string
		skills string
		want   string
	}{
		{
			name:   "flat list reordered",
			skills: "Python, Docker, Go",
			want:   "Docker, Go, Python",
		},
		{
			name:   "labels kept per group",
			skills: "Languages: Python, Go; Tools: Git | Docker\n- Kubernetes, go",
			want:   "Languages: Go, Python\nTools: Docker, Git\nKubernetes",
		},
		{
			name:   "links are not labels",
			skills: "https://github.com/jane, Go",
			want:   "Go, https://github.com/jane",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteSkills(tt.skills, []string{"docker", "go", "kubernetes"}))
		})
	}
}

func TestRewriteSummary(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		keywords []string
		want     string
	}{
		{
			name:     "years and keywords",
			summary:  "6 years of experience. Backend engineer building APIs",
			keywords: []string{"Go", "PostgreSQL"},
			want:     "Results-driven professional with 6+ years of experience specializing in Go and PostgreSQL. Backend engineer building APIs.",
		},
		{
			name:     "years only",
			summary:  "8+ years experience",
			keywords: []string{"Go"},
			want:     "Results-driven professional with 8+ years of experience in Go.",
		},
		{
			name:    "no keywords",
			summary: "Backend   engineer",
			want:    "Backend engineer.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteSummary(tt.summary, tt.keywords))
		})
	}
}

func TestGuardRewrite(t *testing.T) {
	in := backendInput()
	fallback := rewriteWithRules(in)
	model := RewriteOutput{
		Summary:    "Backend engineer with 6+ years building Go APIs and Kubernetes platforms.",
		Experience: "Acme Corp 2019-2023\n- Managed the billing API in Go, cutting latency 40%",
		Skills:     "Go, PostgreSQL, Python",
	}

	out, kept, discarded := guardRewrite(in, model, fallback)
	assert.Equal(t, 1, kept)
	assert.Equal(t, []string{"summary", "experience"}, discarded)
	assert.Equal(t, fallback.Summary, out.Summary)
	assert.Equal(t, fallback.Experience, out.Experience)
	assert.Equal(t, "Go, PostgreSQL, Python", out.Skills)
}

func TestGuardRewrite_MissingSectionsStayMissing(t *testing.T) {
	in := RewriteInput{Sections: sections.New(sections.Section{Name: sections.Summary, Body: "Go developer"})}
	out, kept, discarded := guardRewrite(in, RewriteOutput{Summary: "Go developer.", Experience: "- Built things", Skills: "Go"}, RewriteOutput{})
	assert.Equal(t, 1, kept)
	assert.Empty(t, discarded)
	assert.Empty(t, out.Experience)
	assert.Empty(t, out.Skills)
}
