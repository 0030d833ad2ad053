package jdextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

const backendJD = `Senior Backend Engineer
We use Go and PostgreSQL.
Responsibilities
- Maintain Docker images with Git and mentor juniors
Requirements:
- Experience with Kubernetes (k8s) and strong communication skills
Nice to have
- Terraform, Kafka, and Terraform modules
- Familiarity with go tooling`

func TestExtract_Tiers(t *testing.T) {
	e := NewDefault(Options{SalienceWindow: 2, FrequencyThreshold: 2})

	got, err := e.Extract(backendJD)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", got.Role)
	assert.Equal(t, SenioritySenior, got.Seniority)
	assert.Equal(t, []string{"go", "postgresql", "docker", "git", "kubernetes", "terraform", "kafka"}, got.HardSkills)
	assert.Equal(t, []string{"communication"}, got.SoftSkills)
	assert.Equal(t, []string{"git"}, got.Tools)
	assert.Equal(t, []string{"go", "postgresql", "kubernetes", "communication", "terraform"}, got.Keywords.Primary)
	assert.Equal(t, []string{"docker", "git", "kafka"}, got.Keywords.Secondary)
}

func TestExtract_TiersAreDisjointAndComplete(t *testing.T) {
	inputs := []string{
		backendJD,
		"Data Scientist\nPython, pandas and SQL.\nWe value teamwork.\nSpark or Hadoop a plus.\nPython again.",
		"golang golang golang",
	}
	for _, window := range []int{0, 1, 5} {
		e := NewDefault(Options{SalienceWindow: window, FrequencyThreshold: 2})
		for _, in := range inputs {
			got, err := e.Extract(in)
			require.NoError(t, err)

			primary := make(map[string]bool)
			for _, k := range got.Keywords.Primary {
				primary[k] = true
			}
			for _, k := range got.Keywords.Secondary {
				assert.False(t, primary[k], "%q is in both tiers", k)
			}
			all := append(append([]string{}, got.HardSkills...), got.SoftSkills...)
			assert.ElementsMatch(t, all, append(append([]string{}, got.Keywords.Primary...), got.Keywords.Secondary...))
		}
	}
}

func TestExtract_Terms(t *testing.T) {
	tests := []struct {
		name string
		text string
		hard []string
		soft []string
	}{
		{
			name: "aliases collapse onto the canonical term",
			text: "Golang, golang and GO. Also k8s and nodejs.",
			hard: []string{"go", "kubernetes", "node.js"},
		},
		{
			name: "symbols inside tokens survive",
			text: "Experience with C++, C# and Node.js on CI/CD pipelines.",
			hard: []string{"c++", "c#", "node.js", "ci/cd"},
		},
		{
			name: "leading dot is kept for known terms",
			text: "Experience in .NET services.",
			hard: []string{".net"},
		},
		{
			name: "slash-joined words split",
			text: "Python/Go backend.",
			hard: []string{"python", "go"},
		},
		{
			name: "ambiguous words need an upper-case initial",
			text: "Ready to go the extra mile with the rest of the team.",
		},
		{
			name: "ambiguous words count as proper nouns and in phrases",
			text: "Build REST APIs in Go.",
			hard: []string{"rest", "go"},
		},
		{
			name: "stopwords are ignored inside phrases",
			text: "Strong attention for detail and problem-solving.",
			soft: []string{"attention to detail", "problem solving"},
		},
		{
			name: "longest phrase wins",
			text: "Spring Boot microservices on Google Cloud Platform.",
			hard: []string{"spring boot", "microservices", "gcp"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.NoError(t, err)
			if tt.hard == nil {
				tt.hard = []string{}
			}
			if tt.soft == nil {
				tt.soft = []string{}
			}
			assert.Equal(t, tt.hard, got.HardSkills)
			assert.Equal(t, tt.soft, got.SoftSkills)
		})
	}
}

func TestExtract_RecordsAliasSpellings(t *testing.T) {
	got, err := Extract("Golang and k8s with Python.")
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "golang"}, got.Forms("go"))
	assert.Equal(t, []string{"kubernetes", "k8s"}, got.Forms("kubernetes"))
	assert.Equal(t, []string{"python"}, got.Forms("python"))
	assert.NotContains(t, got.Aliases, "python")

	var none *Extraction
	assert.Equal(t, []string{"go"}, none.Forms("go"))
}

func TestExtract_FrequencyPromotes(t *testing.T) {
	e := NewDefault(Options{SalienceWindow: 0, FrequencyThreshold: 2})

	got, err := e.Extract("Docker here.\nDocker there.\nKafka once.")
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, got.Keywords.Primary)
	assert.Equal(t, []string{"kafka"}, got.Keywords.Secondary)
}

func TestExtract_Empty(t *testing.T) {
	got, err := Extract("  \n\n ")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, SeniorityMid, got.Seniority)
	assert.NotNil(t, got.HardSkills)
	assert.NotNil(t, got.Keywords.Primary)
}

func TestExtract_RejectsBinary(t *testing.T) {
	_, err := Extract("Go\x00\x01\x02")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestExtract_Deterministic(t *testing.T) {
	first, err := Extract(backendJD)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Extract(backendJD)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtract_RoleAndSeniority(t *testing.T) {
	tests := []struct {
		text      string
		role      string
		seniority Seniority
	}{
		{"Job Title: Staff Engineer\nWe are hiring", "Staff Engineer", SenioritySenior},
		{"Requirements:\n- Go", "", SeniorityMid},
		{"We are looking for a great engineer to join us.", "", SeniorityMid},
		{"Junior Data Analyst\nSQL", "Junior Data Analyst", SeniorityJunior},
		{"## Principal Architect ##\nDesign things", "Principal Architect", SeniorityPrincipal},
		{"Backend Engineer\nWe want a senior person.", "Backend Engineer", SenioritySenior},
		{"Backend Engineer\nThis role leads the platform team", "Backend Engineer", SeniorityMid},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.role, got.Role)
			assert.Equal(t, tt.seniority, got.Seniority)
		})
	}
}

func TestClean(t *testing.T) {
	in := `Backend Engineer
Build APIs in Go.
Benefits
- Health insurance
- Free lunch
Requirements:
- Kubernetes
About Us
We are a startup.
Salary: $120k - $150k
Equal Opportunity Employer
We welcome everyone.`

	got := NewDefault(DefaultOptions()).Clean(in)
	assert.Equal(t, "Backend Engineer\nBuild APIs in Go.\nRequirements:\n- Kubernetes", got)
}

func TestClean_KeepsProseMentioningNoise(t *testing.T) {
	in := "Backend Engineer\nBenefits include health insurance."
	assert.Equal(t, in, NewDefault(DefaultOptions()).Clean(in))
}

func TestSetVocabulary(t *testing.T) {
	e, err := New(&Vocabulary{Hard: map[string][]string{"tools": {"widget"}}}, DefaultOptions())
	require.NoError(t, err)

	got, err := e.Extract("Widget wrangler")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, got.Tools)

	err = e.SetVocabulary(&Vocabulary{Soft: []string{"x"}, Aliases: map[string]string{"y": "missing"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	got, err = e.Extract("Widget wrangler")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, got.HardSkills, "a rejected vocabulary keeps the previous one")

	require.NoError(t, e.SetVocabulary(&Vocabulary{Soft: []string{"wrangling"}}))
	got, err = e.Extract("Widget wrangling")
	require.NoError(t, err)
	assert.Empty(t, got.HardSkills)
	assert.Equal(t, []string{"wrangling"}, got.SoftSkills)
}

func TestParseVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"valid", "soft: [leadership]\nhard:\n  languages: [go]\n", ""},
		{"no skills", "stopwords: [a]\n", "no hard or soft skills"},
		{"alias to unknown term", "soft: [leadership]\naliases:\n  lead: leading\n", "unknown term"},
		{"term in two classes", "soft: [go]\nhard:\n  languages: [go]\n", "listed as both"},
		{"heading in two lists", "soft: [x]\nrequirementHeadings: [skills]\nsectionHeadings: [Skills]\n", "requirements and a section heading"},
		{"not yaml", "soft: [unterminated\n", "parse vocabulary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary([]byte(tt.yaml))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultVocabularyCompiles(t *testing.T) {
	assert.NotPanics(t, func() { DefaultVocabulary() })
}
