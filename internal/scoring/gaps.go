package scoring

import (
	"regexp"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// Bullet issues reported by WeakBullets
const (
	IssueMissingActionVerb = "missing_action_verb"
	IssueNoMetrics         = "no_metrics"
	IssuePassiveVoice      = "passive_voice"
	IssueTooShort          = "too_short"
)

const (
	maxCriticalGaps  = 10
	maxOptionalGaps  = 10
	maxMatchedSkills = 15
	maxWeakBullets   = 5
	minBulletLen     = 20
	shortBulletLen   = 50
	bulletPreviewLen = 100
)

var (
	leadingActionVerb = regexp.MustCompile(`(?i)^(led|developed|built|created|managed|designed|implemented|achieved|increased|reduced|delivered|launched|optimized)\b`)
	bulletMetric      = regexp.MustCompile(`(?i)\d+%|\d+x\b|\$\d+|\d+ (users|customers|team|projects)`)
	passiveVoice      = regexp.MustCompile(`(?i)\b(was|were|been|being)\s+\w+ed\b`)
	numberedItem      = regexp.MustCompile(`^\d+\.\s+`)

	bulletMarkers = []string{"-", "•", "*"}
)

// WeakBullet is an experience line that would benefit from a rewrite
type WeakBullet struct {
	Index  int      `json:"index"`
	Text   string   `json:"text"`
	Issues []string `json:"issues"`
}

// Gaps separates missing keywords that likely act as ATS filters from
// nice-to-haves, and points at weak experience bullets
type Gaps struct {
	Critical      []string     `json:"critical"`
	Optional      []string     `json:"optional"`
	MatchedSkills []string     `json:"matchedSkills"`
	WeakBullets   []WeakBullet `json:"weakBullets"`
	MissingCount  int          `json:"missingCount"`
}

// AnalyzeGaps compares a resume with an extraction. Critical gaps are
// missing primary keywords, optional gaps missing secondary ones, both in
// extraction order
func AnalyzeGaps(s *sections.Sections, ex *jdextract.Extraction, w Weights) Gaps {
	res := Score(s, ex, w)

	g := Gaps{
		Critical:      capList(res.MissingKeywords.Primary, maxCriticalGaps),
		Optional:      capList(res.MissingKeywords.Secondary, maxOptionalGaps),
		MatchedSkills: capList(res.MatchedKeywords, maxMatchedSkills),
		WeakBullets:   []WeakBullet{},
		MissingCount:  len(res.MissingKeywords.Primary),
	}
	if s != nil {
		if experience, ok := s.Get(sections.Experience); ok {
			g.WeakBullets = WeakBullets(experience)
		}
	}
	return g
}

func capList(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string{}, list...)
}

// WeakBullets returns up to five experience lines with issues. Lines shorter
// than 20 characters, such as dates or company names, are not judged
func WeakBullets(experience string) []WeakBullet {
	weak := []WeakBullet{}
	index := 0
	for _, line := range utils.SplitLines(experience) {
		bullet := stripBulletMarker(strings.TrimSpace(line))
		if bullet == "" {
			continue
		}
		i := index
		index++
		if len(bullet) < minBulletLen {
			continue
		}

		var issues []string
		if !leadingActionVerb.MatchString(bullet) {
			issues = append(issues, IssueMissingActionVerb)
		}
		if !bulletMetric.MatchString(bullet) {
			issues = append(issues, IssueNoMetrics)
		}
		if passiveVoice.MatchString(bullet) {
			issues = append(issues, IssuePassiveVoice)
		}
		if len(bullet) < shortBulletLen {
			issues = append(issues, IssueTooShort)
		}
		if len(issues) == 0 {
			continue
		}

		weak = append(weak, WeakBullet{Index: i, Text: utils.Truncate(bullet, bulletPreviewLen), Issues: issues})
		if len(weak) == maxWeakBullets {
			break
		}
	}
	return weak
}

func stripBulletMarker(s string) string {
	for _, marker := range bulletMarkers {
		if rest, ok := strings.CutPrefix(s, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(numberedItem.ReplaceAllString(s, ""))
}
