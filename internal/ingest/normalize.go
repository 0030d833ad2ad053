package ingest

import (
	"regexp"
	"strings"
)

var (
	bulletGlyphs  = regexp.MustCompile(`[•●○◦▪▫►▻◆◇★☆✓✔✕✖✗✘→]`)
	inlineSpace   = regexp.MustCompile(`[ \t\x{00A0}]+`)
	pageNumber    = regexp.MustCompile(`^(page\s+)?\d{1,3}(\s*(/|of)\s*\d{1,3})?$`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans extracted text: bullet glyphs become "-", runs of spaces
// collapse, page-number lines are dropped, lines are trimmed and there is
// never more than one blank line in a row
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = bulletGlyphs.ReplaceAllString(text, "-")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
		if pageNumber.MatchString(strings.ToLower(line)) {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.Join(kept, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
