// Package scoring measures how well resume sections cover the keywords of a job description
package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

// Weights controls how much each keyword contributes to the score.
// A keyword weighs its tier weight plus its skill-class bonus
type Weights struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Hard      float64 `json:"hard"`
	Soft      float64 `json:"soft"`
	// Neutral is returned when the job description yields no keywords
	Neutral int `json:"neutral"`
}

// DefaultWeights returns primary 3, secondary 1, hard +2, soft +1, neutral 50
func DefaultWeights() Weights {
	return Weights{Primary: 3, Secondary: 1, Hard: 2, Soft: 1, Neutral: 50}
}

// MissingKeywords lists the keywords absent from the resume, by tier
type MissingKeywords struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// Result is the outcome of scoring a resume against an extraction
type Result struct {
	Score           int             `json:"score"`
	MatchedKeywords []string        `json:"matchedKeywords"`
	MissingKeywords MissingKeywords `json:"missingKeywords"`
}

// Score returns a 0-100 compatibility score. It never fails: nil sections
// score as an empty resume and a nil or empty extraction yields w.Neutral
func Score(s *sections.Sections, ex *jdextract.Extraction, w Weights) Result {
	res := Result{
		MatchedKeywords: []string{},
		MissingKeywords: MissingKeywords{Primary: []string{}, Secondary: []string{}},
	}
	if ex == nil || ex.IsEmpty() {
		res.Score = clamp(w.Neutral)
		return res
	}

	corpus := ""
	if s != nil {
		corpus = s.Corpus()
	}

	var matched, total float64
	tally := func(terms []string, tier float64, missing *[]string) {
		for _, term := range terms {
			weight := tier + classBonus(ex, term, w)
			total += weight
			if ContainsAny(corpus, ex.Forms(term)) {
				matched += weight
				res.MatchedKeywords = append(res.MatchedKeywords, term)
			} else {
				*missing = append(*missing, term)
			}
		}
	}
	tally(ex.Keywords.Primary, w.Primary, &res.MissingKeywords.Primary)
	tally(ex.Keywords.Secondary, w.Secondary, &res.MissingKeywords.Secondary)

	if total <= 0 {
		res.Score = clamp(w.Neutral)
		return res
	}
	res.Score = clamp(int(math.Round(100 * matched / total)))
	return res
}

func classBonus(ex *jdextract.Extraction, term string, w Weights) float64 {
	switch {
	case ex.IsHard(term):
		return w.Hard
	case ex.IsSoft(term):
		return w.Soft
	}
	return 0
}

func clamp(n int) int {
	return max(0, min(100, n))
}

// Contains reports whether term occurs in text, ignoring case. When the term
// begins or ends with a letter or digit, the neighbouring character in text
// must not be one, so "go" does not match "google" but "c++" matches "c++17"
func Contains(text, term string) bool {
	return Index(text, term) >= 0
}

// ContainsAny reports whether any of forms occurs in text under the rules of Contains
func ContainsAny(text string, forms []string) bool {
	for _, f := range forms {
		if Contains(text, f) {
			return true
		}
	}
	return false
}

// Index returns the byte offset of the first match of term in the
// lowercased text under the rules of Contains, or -1
func Index(text, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return -1
	}
	text = strings.ToLower(text)

	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	checkStart, checkEnd := isWordRune(first), isWordRune(last)

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(term)

		ok := true
		if checkStart && start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			ok = !isWordRune(prev)
		}
		if ok && checkEnd && end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			ok = !isWordRune(next)
		}
		if ok {
			return start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return -1
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
