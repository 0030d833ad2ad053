package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ingest"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

const resumeText = `Jane Doe
jane@example.com

SUMMARY
Backend engineer building APIs with Go.

EXPERIENCE
Acme Corp 2019-2023
- responsible for the billing API in Go and PostgreSQL

SKILLS
Python, PostgreSQL, Go`

const jdText = `Senior Backend Engineer
Requirements:
- Go
- Kubernetes
- PostgreSQL
We value communication and teamwork. You will build billing services for our customers.`

type fixture struct {
	dir, config, resume, jd string
}

func newFixture(t *testing.T, extraConfig string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		resume: filepath.Join(dir, "resume.txt"),
		jd:     filepath.Join(dir, "jd.txt"),
	}
	require.NoError(t, os.WriteFile(f.config, []byte("app:\n  logLevel: error\n"+extraConfig), 0600))
	require.NoError(t, os.WriteFile(f.resume, []byte(resumeText), 0600))
	require.NoError(t, os.WriteFile(f.jd, []byte(jdText), 0600))
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "atsbuilder version dev")
}

func TestSegmentCommand(t *testing.T) {
	f := newFixture(t, "")
	out := filepath.Join(f.dir, "sections.json")

	_, err := run(t, "segment", f.resume, "--config", f.config, "--format", "json", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	for _, name := range []string{"summary", "experience", "skills"} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}

func TestExtractCommand(t *testing.T) {
	f := newFixture(t, "")
	out := filepath.Join(f.dir, "jd.md")

	_, err := run(t, "extract", f.jd, "--config", f.config, "--format", "markdown", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Senior Backend Engineer")
	assert.Contains(t, string(data), "kubernetes")
}

func TestScoreCommand(t *testing.T) {
	f := newFixture(t, "")
	out := filepath.Join(f.dir, "score.json")

	_, err := run(t, "score", f.resume, f.jd, "--config", f.config, "--format", "json", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got types.ScoreOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Senior Backend Engineer", got.Role)
	assert.Contains(t, got.Report.Keywords.MatchedKeywords, "go")
	assert.Contains(t, got.Report.Keywords.MissingKeywords.Primary, "kubernetes")
	assert.Contains(t, got.Gaps.Critical, "kubernetes")
}

func TestScoreCommand_UnsupportedFormat(t *testing.T) {
	f := newFixture(t, "")
	_, err := run(t, "score", f.resume, f.jd, "--config", f.config, "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
}

func TestOptimizeCommand(t *testing.T) {
	f := newFixture(t, "")
	report := filepath.Join(f.dir, "report.json")
	doc := filepath.Join(f.dir, "out", "resume.docx")

	_, err := run(t, "optimize", f.resume, f.jd, "--config", f.config,
		"--format", "json", "-o", report, "--export", doc)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var result types.OptimizationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "rules", result.Rewriter)
	assert.GreaterOrEqual(t, result.ScoreAfter, result.ScoreBefore)

	docx, err := os.ReadFile(doc)
	require.NoError(t, err)
	text, err := ingest.ExtractText(doc, docx)
	require.NoError(t, err)
	assert.Contains(t, text, "PROFESSIONAL EXPERIENCE")
	assert.Contains(t, text, "Jane Doe")
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t, "")
	out := filepath.Join(f.dir, "resume.md")

	_, err := run(t, "export", f.resume, "--config", f.config, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	md := string(data)
	assert.True(t, strings.HasPrefix(md, "**Jane Doe**\n"), md)
	assert.Contains(t, md, "## TECHNICAL SKILLS")
	assert.NotContains(t, md, "ATS Score")
}

func TestWorkerRequiresAsynq(t *testing.T) {
	f := newFixture(t, "")
	_, err := run(t, "worker", "--config", f.config)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}
