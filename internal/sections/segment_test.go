package sections

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Section
	}{
		{
			name:  "upper-case headings",
			input: "SUMMARY\nExperienced engineer.\nEXPERIENCE\nBuilt systems.",
			want: []Section{
				{Summary, "Experienced engineer."},
				{Experience, "Built systems."},
			},
		},
		{
			name:  "no headings",
			input: "Just a paragraph.",
			want:  []Section{{Other, "Just a paragraph."}},
		},
		{
			name:  "empty input",
			input: "   \n\t\n",
			want:  nil,
		},
		{
			name:  "synonyms and decoration",
			input: "Jane Doe\njane@example.com\n\n## Professional Summary\nBackend engineer.\n\n**Work History**\n- Acme Corp, 2019-2023\n- Globex, 2016-2019\n\nTools & Technologies:\nGo, PostgreSQL",
			want: []Section{
				{Other, "Jane Doe\njane@example.com"},
				{Summary, "Backend engineer."},
				{Experience, "- Acme Corp, 2019-2023\n- Globex, 2016-2019"},
				{Skills, "Go, PostgreSQL"},
			},
		},
		{
			name:  "inline heading keeps its content",
			input: "Skills: Go, Kubernetes\nEducation\nBSc Computer Science",
			want: []Section{
				{Skills, "Go, Kubernetes"},
				{Education, "BSc Computer Science"},
			},
		},
		{
			name:  "duplicate headings concatenate in order",
			input: "Experience\nFirst job\nSkills\nGo\nexperience\nSecond job",
			want: []Section{
				{Experience, "First job\n\nSecond job"},
				{Skills, "Go"},
			},
		},
		{
			name:  "fuzzy heading with extra words",
			input: "RELEVANT WORK EXPERIENCE\nShipped things\nSelected Key Projects\nA compiler",
			want: []Section{
				{Experience, "Shipped things"},
				{Projects, "A compiler"},
			},
		},
		{
			name:  "employer and job title lines stay in their section",
			input: "EXPERIENCE\nAcme Technologies\n- Built billing APIs in Go\nPortfolio Manager\n- Managed funds\nEducation Coordinator\nEDUCATION\nBSc Finance",
			want: []Section{
				{Experience, "Acme Technologies\n- Built billing APIs in Go\nPortfolio Manager\n- Managed funds\nEducation Coordinator"},
				{Education, "BSc Finance"},
			},
		},
		{
			name:  "contact labels are not inline headings",
			input: "Jane Doe\nPortfolio: https://jane.dev\nProfile: linkedin.com/in/jane\nEmail: jane@example.com\nSUMMARY\nEngineer",
			want: []Section{
				{Other, "Jane Doe\nPortfolio: https://jane.dev\nProfile: linkedin.com/in/jane\nEmail: jane@example.com"},
				{Summary, "Engineer"},
			},
		},
		{
			name:  "filler words around a synonym",
			input: "Other Skills\nChess\nTechnical Experience Highlights\nShipped",
			want: []Section{
				{Skills, "Chess"},
				{Experience, "Shipped"},
			},
		},
		{
			name:  "sentences and bullets are not headings",
			input: "Summary\nI gained experience in education technology.\n- Skills\nLed Education Technology Inc",
			want: []Section{
				{Summary, "I gained experience in education technology.\n- Skills\nLed Education Technology Inc"},
			},
		},
		{
			name:  "internal formatting preserved",
			input: "EXPERIENCE\n\n  Acme\n    - built\n\n    - shipped  \n\n",
			want: []Section{
				{Experience, "Acme\n    - built\n\n    - shipped"},
			},
		},
		{
			name:  "windows line endings",
			input: "SUMMARY\r\nHello\r\nSKILLS\r\nGo\r\n",
			want: []Section{
				{Summary, "Hello"},
				{Skills, "Go"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Segment(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Entries())
		})
	}
}

func TestSegment_RejectsBinary(t *testing.T) {
	_, err := Segment("%PDF-1.7\x00\x00\x01\x02binary")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func TestSegment_Deterministic(t *testing.T) {
	input := "Summary\nA\nSkills\nB\nProjects\nC\nEducation\nD\nCertifications\nE"
	first, err := Segment(input)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Segment(input)
		require.NoError(t, err)
		assert.Equal(t, first.Entries(), again.Entries())
	}
}

func TestSegment_NoTextLoss(t *testing.T) {
	input := "Jane\nSUMMARY\nLine one\nline two\nSKILLS\nGo, SQL\nPROJECTS\n- thing\n  detail"
	got, err := Segment(input)
	require.NoError(t, err)

	var bodies strings.Builder
	for _, e := range got.Entries() {
		bodies.WriteString(e.Body)
		bodies.WriteString("\n")
	}
	for _, line := range strings.Split(input, "\n") {
		if _, _, heading := Default().MatchHeading(line); heading {
			continue
		}
		assert.Contains(t, bodies.String(), line)
	}
}

func TestSegment_RoundTripThroughText(t *testing.T) {
	input := "Intro line\nPROFILE\nEngineer\nTECHNICAL SKILLS\nGo\nDegrees\nBSc\nInterests\nChess"
	first, err := Segment(input)
	require.NoError(t, err)

	second, err := Segment(first.Text())
	require.NoError(t, err)
	assert.Equal(t, first.Entries(), second.Entries())
}

func TestSections_JSONPreservesOrder(t *testing.T) {
	s := New(Section{Skills, "Go"}, Section{Summary, "Engineer"})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":"Go","summary":"Engineer"}`, string(data))
	assert.True(t, strings.Index(string(data), "skills") < strings.Index(string(data), "summary"))

	var decoded Sections
	require.NoError(t, json.Unmarshal([]byte(`{"Experience":"Job","hobbies":"Chess","skills":"Go"}`), &decoded))
	assert.Equal(t, []Name{Experience, Other, Skills}, decoded.Names())
}

func TestSections_SetAndCorpus(t *testing.T) {
	s := &Sections{}
	s.Set(Summary, "  Python developer ")
	s.Set(Skills, "Go")
	s.Set(Summary, "Go developer")
	s.Set(Skills, "")

	body, ok := s.Get(Summary)
	assert.True(t, ok)
	assert.Equal(t, "Go developer", body)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "go developer", s.Corpus())
}

func TestParseName(t *testing.T) {
	name, ok := ParseName(" Certifications ")
	assert.True(t, ok)
	assert.Equal(t, Certifications, name)

	_, ok = ParseName("hobbies")
	assert.False(t, ok)
}

func TestParseHeadingTable(t *testing.T) {
	_, err := ParseHeadingTable([]byte("headings:\n  hobbies: [hobbies]\n"))
	assert.Error(t, err)

	_, err = ParseHeadingTable([]byte("headings:\n  skills: [tools]\n  projects: [Tools]\n"))
	assert.Error(t, err)

	table, err := ParseHeadingTable([]byte("headings:\n  skills: [\"Stack & Tools\"]\n"))
	require.NoError(t, err)

	got, err := NewSegmenter(table).Segment("STACK & TOOLS\nGo")
	require.NoError(t, err)
	assert.Equal(t, []Section{{Skills, "Go"}}, got.Entries())
}
