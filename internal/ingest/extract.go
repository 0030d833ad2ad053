// Package ingest turns uploaded resumes and job posting pages into plain text
package ingest

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/encoding/charmap"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// DefaultMaxSize is the largest document ExtractText accepts by default
const DefaultMaxSize = 10 * 1024 * 1024

// Extractor converts document bytes into normalized text
type Extractor struct {
	MaxSize int64
}

// NewExtractor returns an extractor limited to maxSize bytes (DefaultMaxSize when <= 0)
func NewExtractor(maxSize int64) *Extractor {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Extractor{MaxSize: maxSize}
}

// ExtractText reads a .txt/.md, .pdf or .docx document using the default size limit
func ExtractText(name string, data []byte) (string, error) {
	return NewExtractor(DefaultMaxSize).ExtractText(name, data)
}

// ExtractText picks a reader by file extension and returns normalized text
func (e *Extractor) ExtractText(name string, data []byte) (string, error) {
	if int64(len(data)) > e.MaxSize {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("file exceeds %s", utils.FormatFileSize(e.MaxSize)), nil).
			WithContext("file", name).
			WithContext("size", len(data))
	}

	var (
		text string
		err  error
	)
	switch kind := utils.KindOf(name); kind {
	case utils.KindText:
		text = decodeText(data)
	case utils.KindPDF:
		text, err = pdfText(data)
	case utils.KindDOCX:
		text, err = docxText(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"unsupported file type, expected .pdf, .docx or .txt", nil).
			WithContext("file", name)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read document", err).
			WithContext("file", name)
	}

	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput, "could not extract text from document", nil).
			WithContext("file", name)
	}
	return text, nil
}

// decodeText reads UTF-8, falling back to Windows-1252 for legacy exports
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}

func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, pageText(page))
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageText keeps the visual rows of a page as lines so headings stay on their own line
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		plain, _ := page.GetPlainText(nil)
		return plain
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for _, word := range row.Content {
			b.WriteString(word.S)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

var (
	xmlParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlBreak        = regexp.MustCompile(`<w:(br|cr)\s*/>`)
	xmlTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag          = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

func docxXMLToText(content string) string {
	content = xmlParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlBreak.ReplaceAllString(content, "\n")
	content = xmlTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
