package jdextract

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary is the reference data the extractor matches against
type Vocabulary struct {
	// Hard groups hard-skill terms by category ("languages", "tools", ...)
	Hard map[string][]string `yaml:"hard"`
	Soft []string            `yaml:"soft"`
	// Aliases maps alternative spellings onto a canonical hard or soft term
	Aliases   map[string]string `yaml:"aliases"`
	Ambiguous []string          `yaml:"ambiguous"`
	Stopwords []string          `yaml:"stopwords"`

	RequirementHeadings []string `yaml:"requirementHeadings"`
	SectionHeadings     []string `yaml:"sectionHeadings"`
	NoiseHeadings       []string `yaml:"noiseHeadings"`
}

// DefaultVocabulary returns the built-in vocabulary
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("jdextract: embedded vocabulary is invalid: %v", err))
	}
	return v
}

// LoadVocabulary reads a vocabulary from a YAML file
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary and checks that it compiles
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if _, err := compile(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Class tells hard skills from soft skills
type Class int

const (
	ClassHard Class = iota + 1
	ClassSoft
)

type termInfo struct {
	canonical string
	class     Class
	category  string
}

type headingKind int

const (
	headingNone headingKind = iota
	headingRequirements
	headingSection
)

// lexicon is the compiled, read-only form of a Vocabulary
type lexicon struct {
	terms     map[string]termInfo
	maxWords  int
	stop      map[string]bool
	ambiguous map[string]bool
	headings  map[string]headingKind
	noise     []string
	// forms lists the alias spellings of each canonical term
	forms     map[string][]string
}

func compile(v *Vocabulary) (*lexicon, error) {
	if len(v.Hard) == 0 && len(v.Soft) == 0 {
		return nil, fmt.Errorf("vocabulary has no hard or soft skills")
	}

	lex := &lexicon{
		terms:     make(map[string]termInfo),
		stop:      make(map[string]bool),
		ambiguous: make(map[string]bool),
		headings:  make(map[string]headingKind),
		forms:     make(map[string][]string),
	}
	for _, w := range v.Stopwords {
		lex.stop[strings.ToLower(strings.TrimSpace(w))] = true
	}

	add := func(term string, info termInfo) error {
		key := lex.termKey(term)
		if key == "" {
			return fmt.Errorf("term %q is empty after removing stopwords", term)
		}
		if prev, dup := lex.terms[key]; dup && (prev.canonical != info.canonical || prev.class != info.class) {
			return fmt.Errorf("term %q is listed as both %q and %q", term, prev.canonical, info.canonical)
		}
		lex.terms[key] = info
		if n := len(strings.Fields(key)); n > lex.maxWords {
			lex.maxWords = n
		}
		return nil
	}

	// categories are visited in sorted order so duplicate errors are deterministic
	categories := make([]string, 0, len(v.Hard))
	for category := range v.Hard {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, term := range v.Hard[category] {
			canonical := canonicalTerm(term)
			if err := add(canonical, termInfo{canonical: canonical, class: ClassHard, category: category}); err != nil {
				return nil, err
			}
		}
	}
	for _, term := range v.Soft {
		canonical := canonicalTerm(term)
		if err := add(canonical, termInfo{canonical: canonical, class: ClassSoft}); err != nil {
			return nil, err
		}
	}

	aliases := make([]string, 0, len(v.Aliases))
	for alias := range v.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		target, ok := lex.terms[lex.termKey(v.Aliases[alias])]
		if !ok {
			return nil, fmt.Errorf("alias %q points at unknown term %q", alias, v.Aliases[alias])
		}
		if err := add(alias, target); err != nil {
			return nil, err
		}
		if form := canonicalTerm(alias); form != target.canonical {
			lex.forms[target.canonical] = append(lex.forms[target.canonical], form)
		}
	}

	for _, w := range v.Ambiguous {
		lex.ambiguous[canonicalTerm(w)] = true
	}
	for _, h := range v.RequirementHeadings {
		lex.headings[normalizeHeading(h)] = headingRequirements
	}
	for _, h := range v.SectionHeadings {
		if _, dup := lex.headings[normalizeHeading(h)]; dup {
			return nil, fmt.Errorf("heading %q is listed as both a requirements and a section heading", h)
		}
		lex.headings[normalizeHeading(h)] = headingSection
	}

	for _, h := range v.NoiseHeadings {
		if key := normalizeHeading(h); key != "" {
			lex.noise = append(lex.noise, key)
		}
	}

	return lex, nil
}

func canonicalTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// termKey is the lookup key of a phrase: lower-case words without stopwords
func (l *lexicon) termKey(term string) string {
	words := strings.Fields(strings.ToLower(term))
	kept := words[:0]
	for _, w := range words {
		if !l.stop[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func (l *lexicon) isTerm(key string) bool {
	_, ok := l.terms[key]
	return ok
}
