package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ingest"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

func sampleDocument() Document {
	s := sections.New(
		sections.Section{Name: sections.Other, Body: "Jane Doe\njane@example.com"},
		sections.Section{Name: sections.Skills, Body: "Go, PostgreSQL, Kubernetes"},
		sections.Section{Name: sections.Experience, Body: "Acme Corp\n- Built the billing API in Go\n- Migrated data to PostgreSQL"},
		sections.Section{Name: sections.Summary, Body: "Backend engineer focused on Go services."},
	)
	return Document{Sections: s, Score: 87, ShowScore: true, Keywords: []string{"Go", "PostgreSQL"}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"", FormatPDF, false},
		{"DOCX", FormatDOCX, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"rtf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "optimized_resume.docx", FormatDOCX.Filename())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestHighlightKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     string
	}{
		{"keeps casing", "Wrote go and GO services", []string{"Go"}, "Wrote **go** and **GO** services"},
		{"whole words only", "Used Google and Go", []string{"go"}, "Used Google and **Go**"},
		{"longest first", "Built on Google Cloud", []string{"Google", "Google Cloud"}, "Built on **Google Cloud**"},
		{"no keywords", "plain text", nil, "plain text"},
		{"no matches", "plain text", []string{"rust"}, "plain text"},
		{"symbols", "C++ and C#", []string{"c++", "c#"}, "**C++** and **C#**"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightKeywords(tt.text, tt.keywords))
		})
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleDocument())

	assert.True(t, strings.HasPrefix(md, "*ATS Score: 87/100*\n\n**Jane Doe**\njane@example.com\n"))
	summary := strings.Index(md, "## PROFESSIONAL SUMMARY")
	experience := strings.Index(md, "## PROFESSIONAL EXPERIENCE")
	skills := strings.Index(md, "## TECHNICAL SKILLS")
	require.True(t, summary > 0 && experience > 0 && skills > 0)
	assert.Less(t, summary, experience)
	assert.Less(t, experience, skills)
	assert.Contains(t, md, "- Built the billing API in **Go**\n")
	assert.Contains(t, md, "**Go**, **PostgreSQL**, Kubernetes")
	assert.NotContains(t, md, "ADDITIONAL INFORMATION")
}

func TestMarkdown_TrailingOtherSection(t *testing.T) {
	doc := Document{Sections: sections.New(
		sections.Section{Name: sections.Skills, Body: "Go"},
		sections.Section{Name: sections.Other, Body: "Volunteer mentor"},
	)}
	md := Markdown(doc)

	assert.True(t, strings.HasPrefix(md, "## TECHNICAL SKILLS"))
	assert.Contains(t, md, "## ADDITIONAL INFORMATION\n\nVolunteer mentor\n")
	assert.NotContains(t, md, "ATS Score")
}

func TestDOCX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatDOCX, sampleDocument()))

	text, err := ingest.ExtractText("resume.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "ATS Score: 87/100")
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "PROFESSIONAL SUMMARY")
	assert.Contains(t, text, "- Built the billing API in Go")
	assert.NotContains(t, text, "{{RESUME_BODY}}")
	assert.NotContains(t, text, "{{ATS_SCORE}}")
	assert.Less(t, strings.Index(text, "PROFESSIONAL SUMMARY"), strings.Index(text, "TECHNICAL SKILLS"))
}

func TestDOCX_EscapesMarkup(t *testing.T) {
	doc := Document{Sections: sections.New(sections.Section{Name: sections.Skills, Body: "R&D <tools>"})}
	var buf bytes.Buffer
	require.NoError(t, DOCX(&buf, doc))

	text, err := ingest.ExtractText("resume.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "R&D <tools>")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderPDF(&buf, sampleDocument(), false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, out, "(ATS Score: 87/100)Tj")
	assert.Contains(t, out, "(PROFESSIONAL SUMMARY)Tj")
	assert.Contains(t, out, "Built the billing API in Go")
	assert.Less(t, strings.Index(out, "(PROFESSIONAL SUMMARY)"), strings.Index(out, "(TECHNICAL SKILLS)"))
}

func TestRender_PDFCompressed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatPDF, sampleDocument()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, Format("rtf"), sampleDocument())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
