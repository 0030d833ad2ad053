package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain text", "SUMMARY\nBuilt systems.\r\n\tIndented", false},
		{"unicode text", "Développeur · Zürich, 2021", false},
		{"invalid utf8", string([]byte{0xff, 0xfe, 0x41}), true},
		{"nul bytes", "PK\x00\x03\x04", true},
		{"control heavy", strings.Repeat("\x01\x02\x03ab", 20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckText(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]DocumentKind{
		"resume.pdf":  KindPDF,
		"resume.PDF":  KindPDF,
		"resume.docx": KindDOCX,
		"resume.md":   KindText,
		"resume.txt":  KindText,
		"resume.doc":  KindUnknown,
		"resume":      KindUnknown,
		"archive.zip": KindUnknown,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, KindOf(name))
			assert.Equal(t, want != KindUnknown, IsSupportedDocument(name))
		})
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	assert.NoError(t, os.WriteFile(file, []byte("text"), 0600))

	assert.NoError(t, ValidateInputFile(file))
	assert.Error(t, ValidateInputFile(""))
	assert.Error(t, ValidateInputFile(dir))
	assert.Error(t, ValidateInputFile(filepath.Join(dir, "missing.txt")))
}

func TestTruncateAndFormatFileSize(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "10.0 MB", FormatFileSize(10*1024*1024))
}
