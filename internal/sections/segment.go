package sections

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

const (
	// maxHeadingWords and maxHeadingLen bound lines considered for fuzzy heading matches
	maxHeadingWords = 6
	maxHeadingLen   = 50
)

// minorWords may stay lower-case in a Title Case heading
var minorWords = map[string]bool{
	"and": true, "&": true, "of": true, "the": true, "for": true, "in": true, "to": true, "a": true,
}

// headingFiller are the only words a fuzzy heading may carry besides its
// synonym, as in "Relevant Work Experience" or "Selected Key Projects"
var headingFiller = map[string]bool{
	"and": true, "of": true, "the": true, "my": true, "other": true,
	"relevant": true, "professional": true, "technical": true, "work": true,
	"selected": true, "additional": true, "key": true, "core": true,
	"academic": true, "recent": true, "personal": true, "notable": true,
	"related": true, "industry": true, "career": true, "featured": true,
	"section": true, "details": true, "highlights": true, "summary": true,
	"history": true, "information": true,
}

// Segmenter detects section headings using a heading table.
// It holds no mutable state and is safe for concurrent use
type Segmenter struct {
	exact   map[string]Name
	phrases []phrase
}

// NewSegmenter returns a segmenter for the given heading table
func NewSegmenter(table *HeadingTable) *Segmenter {
	exact, phrases := table.index()
	return &Segmenter{exact: exact, phrases: phrases}
}

var (
	defaultSegmenter     *Segmenter
	defaultSegmenterOnce sync.Once
)

// Default returns a segmenter over the built-in heading table
func Default() *Segmenter {
	defaultSegmenterOnce.Do(func() {
		defaultSegmenter = NewSegmenter(DefaultHeadingTable())
	})
	return defaultSegmenter
}

// Segment splits raw resume text using the built-in heading table
func Segment(raw string) (*Sections, error) {
	return Default().Segment(raw)
}

// Segment splits raw resume text into sections.
//
// Text before the first heading, or the whole text when there are no
// headings, is placed in the "other" section. Empty input yields empty
// sections. Input that is not text fails with an INVALID_INPUT error
func (s *Segmenter) Segment(raw string) (*Sections, error) {
	if err := utils.CheckText(raw); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput, "resume content is not text", err)
	}

	out := &Sections{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	current := Other
	var body []string
	flush := func() {
		out.Append(current, strings.Join(body, "\n"))
		body = body[:0]
	}

	for _, line := range utils.SplitLines(raw) {
		if name, rest, ok := s.MatchHeading(line); ok {
			flush()
			current = name
			if rest != "" {
				body = append(body, rest)
			}
			continue
		}
		body = append(body, line)
	}
	flush()

	return out, nil
}

// MatchHeading reports whether line introduces a section. For inline
// headings such as "Skills: Go, SQL" the text after the colon is returned as rest.
// A line that is not an exact synonym matches only when its other words are
// heading filler, so "Acme Technologies" or "Portfolio Manager" stay body text
func (s *Segmenter) MatchHeading(line string) (name Name, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isBullet(trimmed) {
		return "", "", false
	}

	if idx := strings.IndexByte(trimmed, ':'); idx > 0 && idx < len(trimmed)-1 {
		if name, ok := s.exact[normalizeHeading(trimmed[:idx])]; ok {
			// "Profile: linkedin.com/in/jane" is a contact line
			if rest := strings.TrimSpace(trimmed[idx+1:]); !looksLikeContact(rest) {
				return name, rest, true
			}
		}
	}

	key := normalizeHeading(trimmed)
	if key == "" {
		return "", "", false
	}
	if name, ok := s.exact[key]; ok {
		return name, "", true
	}

	words := strings.Fields(key)
	if len(words) > maxHeadingWords || utf8.RuneCountInString(trimmed) > maxHeadingLen || !looksLikeHeading(trimmed) {
		return "", "", false
	}
	for _, p := range s.phrases {
		if at := indexWords(words, p.words); at >= 0 && onlyFiller(words, at, len(p.words)) {
			return p.name, "", true
		}
	}
	return "", "", false
}

// onlyFiller reports whether every word outside words[at:at+n] is heading filler
func onlyFiller(words []string, at, n int) bool {
	for i, w := range words {
		if (i < at || i >= at+n) && !headingFiller[w] {
			return false
		}
	}
	return true
}

// looksLikeContact reports whether an inline heading's text is a link or an
// e-mail address rather than section content
func looksLikeContact(rest string) bool {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	return strings.Contains(first, "@") || strings.HasPrefix(first, "www.") ||
		strings.Contains(first, "://") || (strings.Contains(first, ".") && strings.Contains(first, "/"))
}

func isBullet(s string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· ", "+ "} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// normalizeHeading lowercases a candidate heading, strips decoration and
// rewrites "&" and "/" so that "Tools & Technologies" matches "tools and technologies"
func normalizeHeading(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimLeft(s, "#*=_~|> \t")
	s = strings.TrimRight(s, "#*=_~|:- \t")
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "/", " ")
	return strings.Join(strings.Fields(s), " ")
}

// looksLikeHeading checks casing and punctuation cues of a short line
func looksLikeHeading(s string) bool {
	if strings.HasPrefix(s, "#") || strings.HasSuffix(s, ":") {
		return true
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		return false
	}

	hasLetter := false
	allUpper := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				allUpper = false
			}
		}
	}
	if !hasLetter {
		return false
	}
	if allUpper {
		return true
	}

	for _, word := range strings.Fields(strings.Trim(s, "*_=#")) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) && !unicode.IsUpper(r) && !minorWords[strings.ToLower(word)] {
			return false
		}
	}
	return true
}

// indexWords returns the position of sub within words, or -1
func indexWords(words, sub []string) int {
	if len(sub) == 0 || len(sub) > len(words) {
		return -1
	}
	for i := 0; i+len(sub) <= len(words); i++ {
		match := true
		for j := range sub {
			if words[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
