// Package export renders optimized resumes as PDF, DOCX and markdown
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// Format is an export document format
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "md"
)

// ParseFormat accepts pdf, docx, md and markdown, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported export format %q (use pdf, docx or md)", s), nil)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Filename returns the download file name for the format
func (f Format) Filename() string {
	return "optimized_resume." + string(f)
}

// Document is a resume ready for export
type Document struct {
	Sections *sections.Sections
	// Score is printed as "ATS Score: n/100" when ShowScore is set
	Score     int
	ShowScore bool
	// Keywords are emphasized in markdown output
	Keywords []string
}

// Render writes doc in format f
func Render(w io.Writer, f Format, doc Document) error {
	var err error
	switch f {
	case FormatPDF:
		err = PDF(w, doc)
	case FormatDOCX:
		err = DOCX(w, doc)
	case FormatMarkdown:
		_, err = io.WriteString(w, Markdown(doc))
	default:
		_, err = ParseFormat(string(f))
		return err
	}
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.NewIOError(errors.ErrCodeExportFailed, fmt.Sprintf("failed to render %s", f), err)
	}
	return nil
}

var sectionTitles = map[sections.Name]string{
	sections.Summary:        "PROFESSIONAL SUMMARY",
	sections.Experience:     "PROFESSIONAL EXPERIENCE",
	sections.Skills:         "TECHNICAL SKILLS",
	sections.Education:      "EDUCATION",
	sections.Projects:       "PROJECTS",
	sections.Certifications: "CERTIFICATIONS",
	sections.Other:          "ADDITIONAL INFORMATION",
}

// SectionTitle returns the printed heading of a section
func SectionTitle(name sections.Name) string {
	if t, ok := sectionTitles[name]; ok {
		return t
	}
	return strings.ToUpper(string(name))
}

type block struct {
	title string
	lines []string
}

// layout orders the sections conventionally. A leading "other" section is
// the contact block and is returned separately, untitled
func layout(s *sections.Sections) (contact []string, blocks []block) {
	entries := s.Entries()
	if len(entries) > 0 && entries[0].Name == sections.Other {
		contact = nonEmptyLines(entries[0].Body)
		entries = entries[1:]
	}
	rank := make(map[sections.Name]int, len(sections.Known))
	for i, n := range sections.Known {
		rank[n] = i
	}
	sort.SliceStable(entries, func(i, j int) bool { return rank[entries[i].Name] < rank[entries[j].Name] })

	for _, e := range entries {
		if lines := nonEmptyLines(e.Body); len(lines) > 0 {
			blocks = append(blocks, block{title: SectionTitle(e.Name), lines: lines})
		}
	}
	return contact, blocks
}

func nonEmptyLines(body string) []string {
	var lines []string
	for _, l := range utils.SplitLines(body) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// bulletText reports whether line is a bullet and returns its text
func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "• ", "* "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return line, false
}

func scoreLine(doc Document) string {
	if !doc.ShowScore {
		return ""
	}
	return fmt.Sprintf("ATS Score: %d/100", doc.Score)
}

// HighlightKeywords wraps every whole-word, case-insensitive occurrence of
// the keywords in **bold** markers, keeping the text's own casing. Longer
// keywords win when matches overlap
func HighlightKeywords(text string, keywords []string) string {
	if len(keywords) == 0 || len(strings.ToLower(text)) != len(text) {
		return text
	}
	kws := append([]string{}, keywords...)
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })

	type span struct{ start, end int }
	var spans []span
	taken := make([]bool, len(text))

	for _, kw := range kws {
		kw = strings.TrimSpace(kw)
		for pos := 0; pos < len(text); {
			i := scoring.Index(text[pos:], kw)
			if i < 0 {
				break
			}
			start, end := pos+i, pos+i+len(kw)
			free := true
			for k := start; k < end; k++ {
				if taken[k] {
					free = false
					break
				}
			}
			if free {
				for k := start; k < end; k++ {
					taken[k] = true
				}
				spans = append(spans, span{start, end})
			}
			pos = end
		}
	}
	if len(spans) == 0 {
		return text
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		b.WriteString("**")
		b.WriteString(text[sp.start:sp.end])
		b.WriteString("**")
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String()
}
