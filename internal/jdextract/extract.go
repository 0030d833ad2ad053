// Package jdextract pulls a role, skills and tiered keywords out of job description text
package jdextract

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// Options tunes keyword tiering
type Options struct {
	// SalienceWindow is the number of leading non-empty lines whose terms are primary
	SalienceWindow int
	// FrequencyThreshold promotes a term occurring at least this often to primary
	FrequencyThreshold int
}

// DefaultOptions returns a salience window of 5 lines and a frequency threshold of 2
func DefaultOptions() Options {
	return Options{SalienceWindow: 5, FrequencyThreshold: 2}
}

func (o Options) normalized() Options {
	if o.SalienceWindow < 0 {
		o.SalienceWindow = 0
	}
	if o.FrequencyThreshold < 1 {
		o.FrequencyThreshold = DefaultOptions().FrequencyThreshold
	}
	return o
}

// Keywords holds two disjoint keyword tiers
type Keywords struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// Extraction is the structured signal pulled from a job description
type Extraction struct {
	Role       string    `json:"role"`
	Seniority  Seniority `json:"seniority"`
	HardSkills []string  `json:"hardSkills"`
	SoftSkills []string  `json:"softSkills"`
	Tools      []string  `json:"tools"`
	Keywords   Keywords  `json:"keywords"`

	// Aliases holds the other spellings of extracted terms, such as "k8s" for "kubernetes"
	Aliases map[string][]string `json:"aliases,omitempty"`
}

func newExtraction() *Extraction {
	return &Extraction{
		Seniority:  SeniorityMid,
		HardSkills: []string{},
		SoftSkills: []string{},
		Tools:      []string{},
		Keywords:   Keywords{Primary: []string{}, Secondary: []string{}},
	}
}

// IsHard reports whether term is one of the extracted hard skills
func (e *Extraction) IsHard(term string) bool {
	return containsString(e.HardSkills, term)
}

// IsSoft reports whether term is one of the extracted soft skills
func (e *Extraction) IsSoft(term string) bool {
	return containsString(e.SoftSkills, term)
}

// Forms returns term followed by its known alias spellings
func (e *Extraction) Forms(term string) []string {
	if e == nil || len(e.Aliases[term]) == 0 {
		return []string{term}
	}
	return append([]string{term}, e.Aliases[term]...)
}

// IsEmpty reports whether nothing scoreable was extracted
func (e *Extraction) IsEmpty() bool {
	return len(e.Keywords.Primary) == 0 && len(e.Keywords.Secondary) == 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Extractor turns job description text into an Extraction.
// It is safe for concurrent use; the vocabulary can be swapped at runtime
type Extractor struct {
	opts Options
	lex  atomic.Pointer[lexicon]
}

// New returns an extractor over the given vocabulary
func New(v *Vocabulary, opts Options) (*Extractor, error) {
	lex, err := compile(v)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeVocabularyFailed, "invalid vocabulary", err)
	}
	e := &Extractor{opts: opts.normalized()}
	e.lex.Store(lex)
	return e, nil
}

// NewDefault returns an extractor over the built-in vocabulary
func NewDefault(opts Options) *Extractor {
	e, err := New(DefaultVocabulary(), opts)
	if err != nil {
		panic(err)
	}
	return e
}

// Options returns the tiering options in use
func (e *Extractor) Options() Options {
	return e.opts
}

// SetVocabulary atomically replaces the vocabulary. Extractions already
// running finish with the previous one
func (e *Extractor) SetVocabulary(v *Vocabulary) error {
	lex, err := compile(v)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeVocabularyFailed, "invalid vocabulary", err)
	}
	e.lex.Store(lex)
	return nil
}

var (
	defaultExtractor     *Extractor
	defaultExtractorOnce sync.Once
)

// Extract runs the built-in vocabulary with default options
func Extract(raw string) (*Extraction, error) {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = NewDefault(DefaultOptions())
	})
	return defaultExtractor.Extract(raw)
}

type termStat struct {
	info    termInfo
	count   int
	salient bool
}

// Extract returns the role, skills and keyword tiers of a job description.
//
// A term is primary when it occurs within the salience window, under a
// requirements heading, or at least FrequencyThreshold times; otherwise it
// is secondary. Terms keep the order of their first occurrence
func (e *Extractor) Extract(raw string) (*Extraction, error) {
	if err := utils.CheckText(raw); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput, "job description is not text", err)
	}

	out := newExtraction()
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}

	lex := e.lex.Load()
	lines := utils.SplitLines(raw)

	stats := make(map[string]*termStat)
	var order []string
	nonEmpty := 0
	inRequirements := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		inWindow := nonEmpty < e.opts.SalienceWindow
		nonEmpty++

		if kind, ok := lex.heading(trimmed); ok {
			inRequirements = kind == headingRequirements
		}

		for _, info := range lex.match(trimmed) {
			st, seen := stats[info.canonical]
			if !seen {
				st = &termStat{info: info}
				stats[info.canonical] = st
				order = append(order, info.canonical)
			}
			st.count++
			if inWindow || inRequirements {
				st.salient = true
			}
		}
	}

	for _, term := range order {
		st := stats[term]
		if forms := lex.forms[term]; len(forms) > 0 {
			if out.Aliases == nil {
				out.Aliases = make(map[string][]string)
			}
			out.Aliases[term] = append([]string(nil), forms...)
		}
		switch st.info.class {
		case ClassHard:
			out.HardSkills = append(out.HardSkills, term)
			if st.info.category == "tools" {
				out.Tools = append(out.Tools, term)
			}
		case ClassSoft:
			out.SoftSkills = append(out.SoftSkills, term)
		}

		if st.salient || st.count >= e.opts.FrequencyThreshold {
			out.Keywords.Primary = append(out.Keywords.Primary, term)
		} else {
			out.Keywords.Secondary = append(out.Keywords.Secondary, term)
		}
	}

	out.Role = lex.detectRole(lines)
	out.Seniority = detectSeniority(out.Role, raw)
	return out, nil
}
