package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bullets and spaces",
			in:   "•  Built   APIs\n● Led\tteam",
			want: "- Built APIs\n- Led team",
		},
		{
			name: "page numbers and blank runs",
			in:   "Summary\r\n\r\n\r\n\r\nPage 2 of 3\n 12 \nSkills\t\tGo",
			want: "Summary\n\nSkills Go",
		},
		{
			name: "years are not page numbers",
			in:   "Acme\n2019\n",
			want: "Acme\n2019",
		},
		{
			name: "invalid utf-8 is dropped",
			in:   "Go\xff developer",
			want: "Go developer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText("resume.TXT", []byte("\xef\xbb\xbfSUMMARY\n• Go developer\n"))
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY\n- Go developer", text)

	text, err = ExtractText("resume.txt", []byte("Caf\xe9 owner"))
	require.NoError(t, err)
	assert.Equal(t, "Café owner", text)
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		max      int64
		wantCode string
	}{
		{"unsupported type", "resume.rtf", []byte("text"), 0, errors.ErrCodeInvalidFormat},
		{"too large", "resume.txt", []byte(strings.Repeat("a", 11)), 10, errors.ErrCodeFileTooLarge},
		{"empty text", "resume.txt", []byte("  \n "), 0, errors.ErrCodeInvalidInput},
		{"broken pdf", "resume.pdf", []byte("not a pdf"), 0, errors.ErrCodeFileNotReadable},
		{"broken docx", "resume.docx", []byte("not a zip"), 0, errors.ErrCodeFileNotReadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(tt.max).ExtractText(tt.file, tt.data)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>SKILLS</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>R&amp;D</w:t></w:r></w:p></w:body></w:document>`
	assert.Equal(t, "SKILLS\nGo\tR&D\n", docxXMLToText(xml))
}

const postingHTML = `<html><head><script>var x = 1;</script></head><body>` +
	`<nav>Home Jobs</nav>` +
	`<div class="job-description"><h2>Requirements</h2><ul><li>Go</li><li>Docker</li></ul><p>We build things.</p></div>` +
	`<footer>Copyright</footer></body></html>`

func TestMainText(t *testing.T) {
	got, err := MainText(postingHTML)
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n- Go\n- Docker\nWe build things.", got)
}

func TestMainText_FallsBackToBody(t *testing.T) {
	got, err := MainText(`<html><body><p>Backend Engineer</p><p>Kubernetes</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nKubernetes", got)
}

func TestFetchJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posting":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(postingHTML))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("Go Developer\n\n\n\nRequirements:  Go"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	ctx := context.Background()

	got, err := f.FetchJobDescription(ctx, srv.URL+"/posting")
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n- Go\n- Docker\nWe build things.", got)

	got, err = f.FetchJobDescription(ctx, srv.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "Go Developer\n\nRequirements: Go", got)

	_, err = f.FetchJobDescription(ctx, srv.URL+"/missing")
	assert.True(t, errors.HasCode(err, errors.ErrCodeFetchFailed))

	_, err = f.FetchJobDescription(ctx, "ftp://example.com/job")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}
