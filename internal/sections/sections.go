// Package sections splits resume text into named sections
package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Name is a canonical section name
type Name string

const (
	Summary        Name = "summary"
	Experience     Name = "experience"
	Skills         Name = "skills"
	Education      Name = "education"
	Projects       Name = "projects"
	Certifications Name = "certifications"
	Other          Name = "other"
)

// Known lists the recognized section names in their conventional resume order
var Known = []Name{Summary, Experience, Skills, Education, Projects, Certifications, Other}

// ParseName maps a case-insensitive section name onto its canonical form
func ParseName(s string) (Name, bool) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Known {
		if n == k {
			return k, true
		}
	}
	return "", false
}

// Section is one named block of a resume
type Section struct {
	Name Name   `json:"name"`
	Body string `json:"body"`
}

// Sections is an ordered mapping from section name to body.
// The zero value is an empty mapping ready to use
type Sections struct {
	entries []Section
}

// New builds a Sections value from entries, concatenating repeated names
func New(entries ...Section) *Sections {
	s := &Sections{}
	for _, e := range entries {
		s.Append(e.Name, e.Body)
	}
	return s
}

// Len returns the number of sections
func (s *Sections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get returns the body of a section
func (s *Sections) Get(name Name) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, e := range s.entries {
		if e.Name == name {
			return e.Body, true
		}
	}
	return "", false
}

// Set replaces the body of a section, adding it at the end if absent.
// An empty body removes the section
func (s *Sections) Set(name Name, body string) {
	body = strings.TrimSpace(body)
	for i, e := range s.entries {
		if e.Name == name {
			if body == "" {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			} else {
				s.entries[i].Body = body
			}
			return
		}
	}
	if body != "" {
		s.entries = append(s.entries, Section{Name: name, Body: body})
	}
}

// Append adds body to a section. Repeated sections are joined by a blank line
func (s *Sections) Append(name Name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	for i, e := range s.entries {
		if e.Name == name {
			s.entries[i].Body = e.Body + "\n\n" + body
			return
		}
	}
	s.entries = append(s.entries, Section{Name: name, Body: body})
}

// Names returns section names in order
func (s *Sections) Names() []Name {
	if s == nil {
		return nil
	}
	names := make([]Name, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the ordered sections
func (s *Sections) Entries() []Section {
	if s == nil {
		return nil
	}
	return append([]Section(nil), s.entries...)
}

// Clone returns a deep copy
func (s *Sections) Clone() *Sections {
	return &Sections{entries: s.Entries()}
}

// Corpus joins every body into a single lowercased searchable string
func (s *Sections) Corpus() string {
	if s == nil {
		return ""
	}
	bodies := make([]string, len(s.entries))
	for i, e := range s.entries {
		bodies[i] = e.Body
	}
	return strings.ToLower(strings.Join(bodies, "\n\n"))
}

// Text renders the sections back into resume text with upper-case headings.
// Segmenting the result yields the same section boundaries
func (s *Sections) Text() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if e.Name == Other && i == 0 {
			b.WriteString(e.Body)
			continue
		}
		b.WriteString(strings.ToUpper(string(e.Name)))
		b.WriteString("\n")
		b.WriteString(e.Body)
	}
	return b.String()
}

// MarshalJSON encodes the sections as a JSON object preserving order
func (s *Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s != nil {
		for i, e := range s.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(string(e.Name))
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(e.Body)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of name to body, keeping document order.
// Unknown names are folded into the "other" section
func (s *Sections) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sections: expected JSON object")
	}

	s.entries = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var body string
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("sections: body of %q: %w", key, err)
		}

		name, ok := ParseName(key)
		if !ok {
			name = Other
		}
		s.Append(name, body)
	}

	_, err = dec.Token()
	return err
}
