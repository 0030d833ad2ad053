package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

const (
	maxSummaryKeywords    = 3
	maxCompetencies       = 8
	maxGeneratedSkills    = 5
	maxRewriteGrowthRatio = 2
	maxSkillLabelLen      = 40
)

// weakOpeners are tried in order; the first matching prefix is replaced
var weakOpeners = []struct{ weak, strong string }{
	{"responsible for", "Managed"},
	{"worked on", "Developed"},
	{"helped with", "Contributed to"},
	{"involved in", "Participated in"},
	{"participated in", "Contributed to"},
	{"was part of", "Collaborated on"},
	{"wanted to", "Aimed to"},
	{"handled", "Managed"},
	{"did", "Executed"},
	{"made", "Created"},
	{"got", "Achieved"},
	{"used", "Utilized"},
}

var actionVerbs = map[string]bool{
	"developed": true, "led": true, "created": true, "built": true, "designed": true,
	"implemented": true, "managed": true, "achieved": true, "delivered": true,
	"engineered": true, "architected": true, "optimized": true, "streamlined": true,
	"spearheaded": true, "executed": true, "utilized": true, "deployed": true,
	"contributed": true, "participated": true, "collaborated": true, "aimed": true,
	"reduced": true, "increased": true, "launched": true, "automated": true,
	"mentored": true, "migrated": true, "improved": true,
}

var (
	metricPattern    = regexp.MustCompile(`\d+%|\$[\d,]+|\d+x`)
	yearsPattern     = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?`)
	yearsExpPattern  = regexp.MustCompile(`(?i)\d+\s*\+?\s*years?\s*(of\s+)?experience\.?`)
	bulletPattern    = regexp.MustCompile(`^(?:[-•*]|\d+\.)\s*`)
	skillSeparators  = regexp.MustCompile(`[,;|\n•]`)
	whitespaceRunPat = regexp.MustCompile(`\s+`)
)

// RuleRewriter rewrites deterministically without a model. It only
// rephrases and reorders what the resume already says
type RuleRewriter struct{}

var _ Rewriter = RuleRewriter{}

func (RuleRewriter) Name() string { return EngineRules }

func (RuleRewriter) Rewrite(_ context.Context, in RewriteInput) (RewriteOutput, *TokenUsage, error) {
	return rewriteWithRules(in), nil, nil
}

func rewriteWithRules(in RewriteInput) RewriteOutput {
	s := in.Sections
	if s == nil {
		s = sections.New()
	}
	ex := in.Extraction
	if ex == nil {
		ex = &jdextract.Extraction{}
	}
	corpus := rawCorpus(s)
	targets := targetTerms(ex)

	var out RewriteOutput
	matched := presentTerms(corpus, ex, ex.Keywords.Primary)
	hard := presentTerms(corpus, ex, ex.HardSkills)

	if summary, ok := s.Get(sections.Summary); ok && strings.TrimSpace(summary) != "" {
		out.Summary = rewriteSummary(summary, displayTerms(corpus, ex, matched, maxSummaryKeywords))
	} else {
		out.Summary = generateSummary(ex.Role, displayTerms(corpus, ex, hard, maxGeneratedSkills))
	}
	if competencies := displayTerms(corpus, ex, hard, maxCompetencies); len(competencies) > 0 {
		out.Summary += "\nCore competencies: " + strings.Join(competencies, ", ")
	}

	if experience, ok := s.Get(sections.Experience); ok {
		out.Experience = rewriteExperience(experience, targets)
	}
	if skills, ok := s.Get(sections.Skills); ok {
		out.Skills = rewriteSkills(skills, targets)
	}
	return out
}

func rawCorpus(s *sections.Sections) string {
	var bodies []string
	for _, e := range s.Entries() {
		bodies = append(bodies, e.Body)
	}
	return strings.Join(bodies, "\n\n")
}

// targetTerms returns primary keywords followed by hard skills, without duplicates
func targetTerms(ex *jdextract.Extraction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{ex.Keywords.Primary, ex.HardSkills} {
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func presentTerms(corpus string, ex *jdextract.Extraction, terms []string) []string {
	var out []string
	for _, t := range terms {
		if scoring.ContainsAny(corpus, ex.Forms(t)) {
			out = append(out, t)
		}
	}
	return out
}

// displayTerms returns up to n terms spelled the way the resume spells them
func displayTerms(corpus string, ex *jdextract.Extraction, terms []string, n int) []string {
	sameWidth := len(strings.ToLower(corpus)) == len(corpus)
	var out []string
	for _, t := range terms {
		if len(out) == n {
			break
		}
		shown := t
		for _, form := range ex.Forms(t) {
			if i := scoring.Index(corpus, form); i >= 0 {
				if sameWidth {
					shown = corpus[i : i+len(form)]
				}
				break
			}
		}
		out = append(out, shown)
	}
	return out
}

func joinEnglish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func rewriteSummary(summary string, keywords []string) string {
	summary = strings.TrimSpace(whitespaceRunPat.ReplaceAllString(summary, " "))

	if m := yearsPattern.FindStringSubmatch(summary); m != nil && len(keywords) > 0 {
		base := strings.TrimSpace(whitespaceRunPat.ReplaceAllString(yearsExpPattern.ReplaceAllString(summary, ""), " "))
		if base != "" && !yearsPattern.MatchString(base) {
			return fmt.Sprintf("Results-driven professional with %s+ years of experience specializing in %s. %s",
				m[1], joinEnglish(keywords), ensurePeriod(upperFirst(base)))
		}
		if base == "" {
			return fmt.Sprintf("Results-driven professional with %s+ years of experience in %s.", m[1], joinEnglish(keywords))
		}
	}
	return ensurePeriod(summary)
}

func generateSummary(role string, skills []string) string {
	if role == "" {
		role = "professional"
	}
	if len(skills) == 0 {
		return fmt.Sprintf("Experienced %s.", role)
	}
	return fmt.Sprintf("Experienced %s with expertise in %s.", role, joinEnglish(skills))
}

func ensurePeriod(s string) string {
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

func rewriteExperience(experience string, keywords []string) string {
	var out []string
	for _, line := range utils.SplitLines(experience) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if loc := bulletPattern.FindStringIndex(line); loc != nil {
			out = append(out, "- "+rewriteBullet(line[loc[1]:], keywords))
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// rewriteBullet turns a bullet into action verb + task form. A candidate
// that adds metrics or more than doubles the length is discarded
func rewriteBullet(bullet string, keywords []string) string {
	original := strings.TrimSpace(bullet)
	if original == "" {
		return original
	}

	b := original
	for _, op := range weakOpeners {
		if hasLeadingPhrase(b, op.weak) {
			b = op.strong + b[len(op.weak):]
			break
		}
	}
	b = upperFirst(b)
	if startsWithActionVerb(b) {
		if validRewrite(original, b) {
			return b
		}
		return original
	}

	lead := lowerFirst(b)
	var candidates []string
	for _, kw := range keywords {
		if scoring.Contains(original, kw) {
			candidates = append(candidates, "Applied "+kw+" expertise to "+lead)
			break
		}
	}
	candidates = append(candidates, "Developed "+lead)
	for _, c := range candidates {
		if validRewrite(original, c) {
			return c
		}
	}
	return original
}

func hasLeadingPhrase(s, phrase string) bool {
	n := len(phrase)
	return len(s) >= n && strings.EqualFold(s[:n], phrase) && (len(s) == n || s[n] == ' ')
}

func startsWithActionVerb(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	return actionVerbs[strings.ToLower(strings.TrimRight(fields[0], ",.:;"))]
}

// validRewrite rejects rewrites that introduce numbers the original lacks
// or grow beyond twice its length
func validRewrite(original, rewritten string) bool {
	return !introducesMetrics(original, rewritten) && len(rewritten) <= maxRewriteGrowthRatio*len(original)
}

func introducesMetrics(original, rewritten string) bool {
	have := make(map[string]bool)
	for _, m := range metricPattern.FindAllString(original, -1) {
		have[m] = true
	}
	for _, m := range metricPattern.FindAllString(rewritten, -1) {
		if !have[m] {
			return true
		}
	}
	return false
}

// rewriteSkills moves skills matching targets to the front of their group.
// Labelled groups such as "Languages: Go, SQL" keep their label and line;
// unlabelled items share one group
func rewriteSkills(skills string, targets []string) string {
	type group struct {
		label           string
		matching, other []string
	}
	var groups []*group
	var pool *group
	seen := make(map[string]bool)

	for _, line := range strings.Split(skills, "\n") {
		current := pool
		for _, raw := range skillSeparators.Split(line, -1) {
			item := strings.TrimSpace(bulletPattern.ReplaceAllString(strings.TrimSpace(raw), ""))
			if label, rest, ok := skillLabel(item); ok {
				current = &group{label: label}
				groups = append(groups, current)
				item = rest
			}
			key := strings.ToLower(item)
			if item == "" || seen[key] {
				continue
			}
			seen[key] = true
			if current == nil {
				pool = &group{}
				groups = append(groups, pool)
				current = pool
			}
			if matchesAny(item, targets) {
				current.matching = append(current.matching, item)
			} else {
				current.other = append(current.other, item)
			}
		}
	}

	var lines []string
	for _, g := range groups {
		items := append(g.matching, g.other...)
		if len(items) == 0 {
			continue
		}
		line := strings.Join(items, ", ")
		if g.label != "" {
			line = g.label + ": " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func skillLabel(item string) (label, rest string, ok bool) {
	label, rest, ok = strings.Cut(item, ":")
	label, rest = strings.TrimSpace(label), strings.TrimSpace(rest)
	if !ok || label == "" || len(label) > maxSkillLabelLen || strings.HasPrefix(rest, "//") {
		return "", item, false
	}
	return label, rest, true
}

func matchesAny(item string, terms []string) bool {
	for _, t := range terms {
		if strings.EqualFold(item, t) || scoring.Contains(item, t) {
			return true
		}
	}
	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst lowercases the first rune unless the first word looks like an acronym
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
