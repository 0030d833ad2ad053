package jdextract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	roleScanLines  = 5
	maxRoleLength  = 100
	maxRoleWords   = 12
	roleDecoration = "#*_=|"
)

var rolePrefix = regexp.MustCompile(`(?i)^(?:job\s+title|title|position|role)\s*:\s*(.+)$`)

// detectRole looks for an explicit "Title:" style line in the first lines,
// then falls back to the first non-empty line when it reads like a title
func (l *lexicon) detectRole(lines []string) string {
	first := ""
	seen := 0
	for _, line := range lines {
		t := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), roleDecoration))
		if t == "" {
			continue
		}
		if m := rolePrefix.FindStringSubmatch(t); m != nil {
			return strings.TrimSpace(m[1])
		}
		if first == "" {
			first = t
		}
		seen++
		if seen >= roleScanLines {
			break
		}
	}

	if first == "" || utf8.RuneCountInString(first) >= maxRoleLength || len(strings.Fields(first)) > maxRoleWords {
		return ""
	}
	if strings.HasSuffix(first, ".") || strings.HasSuffix(first, "!") || strings.HasSuffix(first, "?") {
		return ""
	}
	if _, isHeading := l.heading(first); isHeading {
		return ""
	}
	hasLetter := strings.IndexFunc(first, unicode.IsLetter) >= 0
	if !hasLetter {
		return ""
	}
	return first
}

// Seniority is the experience level a job description targets
type Seniority string

const (
	SeniorityJunior    Seniority = "junior"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityPrincipal Seniority = "principal"
)

var seniorityPatterns = []struct {
	level   Seniority
	pattern *regexp.Regexp
}{
	{SeniorityPrincipal, regexp.MustCompile(`(?i)\b(principal|architect|director|distinguished)\b`)},
	{SenioritySenior, regexp.MustCompile(`(?i)\b(senior|sr|lead|staff)\b`)},
	{SeniorityJunior, regexp.MustCompile(`(?i)\b(junior|jr|entry[\s-]?level|intern|graduate)\b`)},
	{SeniorityMid, regexp.MustCompile(`(?i)\b(mid[\s-]?level|intermediate)\b`)},
}

// detectSeniority prefers cues in the role title over cues in the body
func detectSeniority(role, text string) Seniority {
	for _, source := range []string{role, text} {
		if source == "" {
			continue
		}
		for _, p := range seniorityPatterns {
			if p.pattern.MatchString(source) {
				return p.level
			}
		}
	}
	return SeniorityMid
}
