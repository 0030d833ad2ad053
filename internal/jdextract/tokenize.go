package jdextract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxHeadingWords bounds how long a line may be and still be read as a heading
const maxHeadingWords = 6

type token struct {
	norm  string
	upper bool
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("+#./-", r)
}

// tokenize splits a line into lower-case word tokens with stopwords removed.
// Tokens keep "+", "#", "." and "/" so that c++, c#, node.js and ci/cd survive;
// slash-joined words that are not themselves terms are split ("Python/Go")
func (l *lexicon) tokenize(s string) []token {
	var out []token
	add := func(surface string) {
		surface = strings.TrimRight(surface, ".-/")
		surface = strings.TrimLeft(surface, "-/")
		if strings.HasPrefix(surface, ".") && !l.isTerm(strings.ToLower(surface)) {
			surface = strings.TrimLeft(surface, ".")
		}
		if surface == "" {
			return
		}
		norm := strings.ToLower(surface)
		if l.stop[norm] {
			return
		}
		r, _ := utf8.DecodeRuneInString(surface)
		out = append(out, token{norm: norm, upper: unicode.IsUpper(r)})
	}

	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return !isTokenRune(r) }) {
		trimmed := strings.ToLower(strings.Trim(field, ".-/"))
		if strings.Contains(trimmed, "/") && !l.isTerm(trimmed) {
			for _, part := range strings.Split(field, "/") {
				add(part)
			}
			continue
		}
		add(field)
	}
	return out
}

// match returns the vocabulary terms found in a line, longest phrase first.
// Ambiguous single words only count when written with an upper-case initial
func (l *lexicon) match(line string) []termInfo {
	toks := l.tokenize(line)
	var found []termInfo
	for i := 0; i < len(toks); {
		matched := false
		for n := min(l.maxWords, len(toks)-i); n >= 1; n-- {
			key := joinTokens(toks[i : i+n])
			info, ok := l.terms[key]
			if !ok {
				continue
			}
			if n == 1 && l.ambiguous[key] && !toks[i].upper {
				continue
			}
			found = append(found, info)
			i += n
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return found
}

func joinTokens(toks []token) string {
	if len(toks) == 1 {
		return toks[0].norm
	}
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.norm
	}
	return strings.Join(parts, " ")
}

// heading classifies a line as a requirements heading, another JD section
// heading, or neither. Inline headings such as "Requirements: Go, SQL" count
func (l *lexicon) heading(line string) (headingKind, bool) {
	line = strings.TrimSpace(line)
	if idx := strings.IndexByte(line, ':'); idx > 0 && idx < len(line)-1 {
		if kind, ok := l.classifyHeading(line[:idx]+":", true); ok {
			return kind, true
		}
	}
	return l.classifyHeading(line, false)
}

func (l *lexicon) classifyHeading(s string, inline bool) (headingKind, bool) {
	key := normalizeHeading(s)
	if key == "" {
		return headingNone, false
	}
	if kind, ok := l.headings[key]; ok {
		return kind, true
	}

	// "Requirements and Skills:", "BENEFITS & PERKS"
	words := strings.Fields(key)
	if inline || len(words) > maxHeadingWords || !headingShaped(s) {
		return headingNone, false
	}
	best, bestLen := headingNone, 0
	for h, kind := range l.headings {
		hw := strings.Fields(h)
		if len(hw) > bestLen && hasWordPrefix(words, hw) {
			best, bestLen = kind, len(hw)
		}
	}
	return best, bestLen > 0
}

// headingShaped reports whether a line is formatted like a heading rather than prose
func headingShaped(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ":") || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "**") {
		return true
	}
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func hasWordPrefix(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i := range prefix {
		if words[i] != prefix[i] {
			return false
		}
	}
	return true
}

// normalizeHeading lowercases, strips markdown decoration and a trailing colon
func normalizeHeading(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.TrimLeft(s, "#*=_~|> \t")
	s = strings.TrimRight(s, "#*=_~|:- \t")
	s = strings.ReplaceAll(s, "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}
