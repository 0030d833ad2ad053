package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

// Breakdown holds the sub-scores of an ATS report, each 0-100
type Breakdown struct {
	Keywords int `json:"keywords"`
	Sections int `json:"sections"`
	Format   int `json:"format"`
	Quality  int `json:"quality"`
}

// Report is a full ATS assessment of a resume
type Report struct {
	// Score weighs keywords 40%, sections, format and quality 20% each
	Score         int       `json:"score"`
	Breakdown     Breakdown `json:"breakdown"`
	Keywords      Result    `json:"keywords"`
	Improvements  []string  `json:"improvements"`
	RemainingGaps []string  `json:"remainingGaps"`
}

const (
	minSectionBody = 20
	minWords       = 200
	maxWords       = 1500
	listPreview    = 5
)

var (
	requiredSections = []sections.Name{sections.Summary, sections.Experience, sections.Skills, sections.Education}

	boxDrawing     = regexp.MustCompile(`[│║╔╗╚╝═─┌┐└┘├┤┬┴┼]`)
	embeddedObject = regexp.MustCompile(`(?i)\[(image|table)\]`)
	actionVerbs    = regexp.MustCompile(`(?i)\b(led|developed|built|created|managed|designed|implemented|achieved|increased|reduced|delivered|launched|optimized)\b`)
	metrics        = regexp.MustCompile(`(?i)\d+%|\$[\d,]+|\d+x\b|\d+ (users|customers|projects|team members)`)
	bulletLine     = regexp.MustCompile(`(?m)^\s*[-•*]\s`)
)

// Analyze scores keyword coverage, section completeness, format safety and
// content quality, and lists what helped and what still hurts
func Analyze(s *sections.Sections, ex *jdextract.Extraction, w Weights) Report {
	if s == nil {
		s = sections.New()
	}
	var notes []string

	kw := Score(s, ex, w)
	if len(kw.MatchedKeywords) > 0 {
		notes = append(notes, fmt.Sprintf("+ Matched %d keywords: %s", len(kw.MatchedKeywords), preview(kw.MatchedKeywords)))
	}
	if missing := append(append([]string{}, kw.MissingKeywords.Primary...), kw.MissingKeywords.Secondary...); len(missing) > 0 {
		notes = append(notes, fmt.Sprintf("- Missing keywords: %s", preview(missing)))
	}

	sectionScore, sectionNotes := scoreSections(s)
	formatScore, formatNotes := scoreFormat(s)
	qualityScore, qualityNotes := scoreQuality(s)
	notes = append(notes, sectionNotes...)
	notes = append(notes, formatNotes...)
	notes = append(notes, qualityNotes...)

	report := Report{
		Breakdown: Breakdown{
			Keywords: kw.Score,
			Sections: sectionScore,
			Format:   formatScore,
			Quality:  qualityScore,
		},
		Keywords:      kw,
		Improvements:  []string{},
		RemainingGaps: []string{},
	}
	report.Score = clamp(int(math.Round(
		0.4*float64(kw.Score) + 0.2*float64(sectionScore) + 0.2*float64(formatScore) + 0.2*float64(qualityScore),
	)))

	for _, n := range notes {
		if strings.HasPrefix(n, "+") {
			report.Improvements = append(report.Improvements, n)
		} else {
			report.RemainingGaps = append(report.RemainingGaps, n)
		}
	}
	return report
}

func preview(list []string) string {
	if len(list) > listPreview {
		list = list[:listPreview]
	}
	return strings.Join(list, ", ")
}

func title(name sections.Name) string {
	s := string(name)
	return strings.ToUpper(s[:1]) + s[1:]
}

func scoreSections(s *sections.Sections) (int, []string) {
	present := 0
	var notes []string
	for _, name := range requiredSections {
		body, ok := s.Get(name)
		if ok && len(body) > minSectionBody {
			present++
			notes = append(notes, fmt.Sprintf("+ %s section present", title(name)))
		} else {
			notes = append(notes, fmt.Sprintf("- Missing or empty %s section", title(name)))
		}
	}
	return present * 100 / len(requiredSections), notes
}

func scoreFormat(s *sections.Sections) (int, []string) {
	var bodies []string
	for _, e := range s.Entries() {
		bodies = append(bodies, e.Body)
	}
	all := strings.Join(bodies, " ")

	score := 100
	var notes []string
	if boxDrawing.MatchString(all) {
		score -= 20
		notes = append(notes, "- Contains special characters that may break ATS parsing")
	} else {
		notes = append(notes, "+ No problematic special characters")
	}
	if embeddedObject.MatchString(all) {
		score -= 15
		notes = append(notes, "- Contains images or tables (not ATS-friendly)")
	}

	switch words := len(strings.Fields(all)); {
	case words < minWords:
		score -= 15
		notes = append(notes, fmt.Sprintf("- Resume too short (under %d words)", minWords))
	case words > maxWords:
		score -= 10
		notes = append(notes, fmt.Sprintf("- Resume may be too long (over %d words)", maxWords))
	default:
		notes = append(notes, "+ Good resume length")
	}
	return max(0, score), notes
}

func scoreQuality(s *sections.Sections) (int, []string) {
	experience, ok := s.Get(sections.Experience)
	if !ok {
		return 50, []string{"- No experience section to evaluate"}
	}

	score := 100
	var notes []string

	switch n := len(actionVerbs.FindAllString(experience, -1)); {
	case n >= 5:
		notes = append(notes, fmt.Sprintf("+ Strong use of action verbs (%d found)", n))
	case n >= 2:
		score -= 10
		notes = append(notes, fmt.Sprintf("+ Some action verbs used (%d found)", n))
	default:
		score -= 25
		notes = append(notes, "- Few action verbs, bullets may be weak")
	}

	if n := len(metrics.FindAllString(experience, -1)); n > 0 {
		notes = append(notes, fmt.Sprintf("+ Contains quantifiable achievements (%d metrics)", n))
	} else {
		score -= 20
		notes = append(notes, "- No metrics or numbers to quantify impact")
	}

	if n := len(bulletLine.FindAllString(experience, -1)); n >= 5 {
		notes = append(notes, fmt.Sprintf("+ Well-structured with %d bullet points", n))
	} else {
		score -= 10
		notes = append(notes, "- Could use more bullet points for readability")
	}
	return max(0, score), notes
}
