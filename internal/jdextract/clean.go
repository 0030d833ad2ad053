package jdextract

import (
	"regexp"
	"strings"
)

// plainHeading matches short capitalized lines such as "Responsibilities" or "The Team:"
var plainHeading = regexp.MustCompile(`^[A-Z][A-Za-z\s&']+:?$`)

const maxPlainHeadingLen = 50

// Clean drops benefits, company blurbs, equal opportunity statements,
// application instructions and compensation sections from a job description.
// A dropped section ends at the next heading that is not itself noise
func (e *Extractor) Clean(raw string) string {
	lex := e.lex.Load()

	var kept []string
	skipping := false
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if lex.isNoiseHeading(trimmed) {
			skipping = true
			continue
		}
		if skipping && lex.isPlainHeading(trimmed) {
			skipping = false
		}
		if !skipping {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func (l *lexicon) isNoiseHeading(line string) bool {
	head, inline := line, false
	if idx := strings.IndexByte(line, ':'); idx > 0 {
		head, inline = line[:idx], true
	}
	key := normalizeHeading(head)
	if key == "" {
		return false
	}
	words := strings.Fields(key)
	for _, noise := range l.noise {
		if key == noise {
			return true
		}
		// "Benefits & Perks", "Salary Range: $120k"
		if hasWordPrefix(words, strings.Fields(noise)) && len(words) <= maxHeadingWords &&
			(inline || plainHeading.MatchString(line) || headingShaped(line)) {
			return true
		}
	}
	return false
}

func (l *lexicon) isPlainHeading(line string) bool {
	if line == "" || len(line) >= maxPlainHeadingLen {
		return false
	}
	if _, ok := l.heading(line); ok {
		return true
	}
	return plainHeading.MatchString(line) || headingShaped(line)
}
