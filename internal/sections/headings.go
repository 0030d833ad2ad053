package sections

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/headings.yaml
var defaultHeadingsYAML []byte

// HeadingTable maps each section to the heading phrases that introduce it
type HeadingTable struct {
	Headings map[Name][]string `yaml:"headings"`
}

// DefaultHeadingTable returns the built-in heading synonyms
func DefaultHeadingTable() *HeadingTable {
	table, err := ParseHeadingTable(defaultHeadingsYAML)
	if err != nil {
		panic(fmt.Sprintf("sections: embedded heading table is invalid: %v", err))
	}
	return table
}

// LoadHeadingTable reads a heading table from a YAML file
func LoadHeadingTable(path string) (*HeadingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heading table %s: %w", path, err)
	}
	return ParseHeadingTable(data)
}

// ParseHeadingTable decodes and validates a heading table
func ParseHeadingTable(data []byte) (*HeadingTable, error) {
	var raw struct {
		Headings map[string][]string `yaml:"headings"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse heading table: %w", err)
	}
	if len(raw.Headings) == 0 {
		return nil, fmt.Errorf("heading table has no headings")
	}

	table := &HeadingTable{Headings: make(map[Name][]string, len(raw.Headings))}
	owner := make(map[string]Name)
	for key, synonyms := range raw.Headings {
		name, ok := ParseName(key)
		if !ok {
			return nil, fmt.Errorf("unknown section %q in heading table", key)
		}
		for _, synonym := range synonyms {
			norm := normalizeHeading(synonym)
			if norm == "" {
				return nil, fmt.Errorf("empty heading synonym for section %q", name)
			}
			if prev, dup := owner[norm]; dup && prev != name {
				return nil, fmt.Errorf("heading %q is claimed by both %q and %q", synonym, prev, name)
			}
			owner[norm] = name
			table.Headings[name] = append(table.Headings[name], norm)
		}
	}
	return table, nil
}

type phrase struct {
	words []string
	name  Name
}

// index builds the exact-match map and the fuzzy phrase list, longest phrases first
func (t *HeadingTable) index() (map[string]Name, []phrase) {
	exact := make(map[string]Name)
	var phrases []phrase
	for name, synonyms := range t.Headings {
		for _, s := range synonyms {
			exact[s] = name
			phrases = append(phrases, phrase{words: strings.Fields(s), name: name})
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i].words) != len(phrases[j].words) {
			return len(phrases[i].words) > len(phrases[j].words)
		}
		return strings.Join(phrases[i].words, " ") < strings.Join(phrases[j].words, " ")
	})
	return exact, phrases
}
