package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// Data types understood by the registry
const (
	TypeAny          = "any"
	TypeSections     = "Sections"
	TypeExtraction   = "Extraction"
	TypeScore        = "ScoreOutput"
	TypeOptimization = "OptimizationResult"
)

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	registry.RegisterFormatter("text", TypeSections, &SectionsFormatter{})
	registry.RegisterFormatter("markdown", TypeSections, &SectionsFormatter{Markdown: true})
	registry.RegisterFormatter("text", TypeExtraction, &ExtractionFormatter{})
	registry.RegisterFormatter("markdown", TypeExtraction, &ExtractionFormatter{Markdown: true})
	registry.RegisterFormatter("text", TypeScore, &ScoreFormatter{})
	registry.RegisterFormatter("markdown", TypeScore, &ScoreFormatter{Markdown: true})
	registry.RegisterFormatter("text", TypeOptimization, &OptimizationFormatter{})
	registry.RegisterFormatter("markdown", TypeOptimization, &OptimizationFormatter{Markdown: true})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *sections.Sections:
		return TypeSections
	case *jdextract.Extraction:
		return TypeExtraction
	case *types.ScoreOutput:
		return TypeScore
	case *types.OptimizationResult:
		return TypeOptimization
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

// heading writes a top-level or second-level title in text or markdown style
func heading(out *strings.Builder, markdown bool, level int, title string) {
	switch {
	case markdown:
		out.WriteString(strings.Repeat("#", level) + " " + title + "\n\n")
	case level == 1:
		out.WriteString("=== " + strings.ToUpper(title) + " ===\n\n")
	default:
		out.WriteString(title + ":\n")
	}
}

func list(out *strings.Builder, items []string) {
	if len(items) == 0 {
		out.WriteString("- (none)\n\n")
		return
	}
	for _, item := range items {
		out.WriteString("- " + item + "\n")
	}
	out.WriteString("\n")
}

// SectionsFormatter prints segmented resume sections
type SectionsFormatter struct {
	Markdown bool
}

func (f *SectionsFormatter) Format(data any) (string, error) {
	s, ok := data.(*sections.Sections)
	if !ok {
		return "", fmt.Errorf("expected *sections.Sections, got %T", data)
	}

	var output strings.Builder
	heading(&output, f.Markdown, 1, "Resume Sections")
	for _, e := range s.Entries() {
		heading(&output, f.Markdown, 2, string(e.Name))
		output.WriteString(strings.TrimSpace(e.Body))
		output.WriteString("\n\n")
	}
	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (f *SectionsFormatter) SupportedType() string {
	return TypeSections
}

// ExtractionFormatter prints job description keywords
type ExtractionFormatter struct {
	Markdown bool
}

func (f *ExtractionFormatter) Format(data any) (string, error) {
	ex, ok := data.(*jdextract.Extraction)
	if !ok {
		return "", fmt.Errorf("expected *jdextract.Extraction, got %T", data)
	}

	var output strings.Builder
	heading(&output, f.Markdown, 1, "Job Description Analysis")
	output.WriteString(fmt.Sprintf("Role: %s\nSeniority: %s\n\n", ex.Role, ex.Seniority))

	heading(&output, f.Markdown, 2, "Primary Keywords")
	list(&output, ex.Keywords.Primary)
	heading(&output, f.Markdown, 2, "Secondary Keywords")
	list(&output, ex.Keywords.Secondary)
	heading(&output, f.Markdown, 2, "Hard Skills")
	list(&output, ex.HardSkills)
	heading(&output, f.Markdown, 2, "Soft Skills")
	list(&output, ex.SoftSkills)
	heading(&output, f.Markdown, 2, "Tools")
	list(&output, ex.Tools)

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (f *ExtractionFormatter) SupportedType() string {
	return TypeExtraction
}

// ScoreFormatter prints an ATS report with its gap analysis
type ScoreFormatter struct {
	Markdown bool
}

func (f *ScoreFormatter) Format(data any) (string, error) {
	out, ok := data.(*types.ScoreOutput)
	if !ok {
		return "", fmt.Errorf("expected *types.ScoreOutput, got %T", data)
	}

	var output strings.Builder
	heading(&output, f.Markdown, 1, "ATS Compatibility")
	if out.Role != "" {
		output.WriteString(fmt.Sprintf("Role: %s\n", out.Role))
	}
	r := out.Report
	output.WriteString(fmt.Sprintf("Score: %d/100\n", r.Score))
	output.WriteString(fmt.Sprintf("Keywords: %d  Sections: %d  Format: %d  Quality: %d\n\n",
		r.Breakdown.Keywords, r.Breakdown.Sections, r.Breakdown.Format, r.Breakdown.Quality))

	heading(&output, f.Markdown, 2, "Matched Keywords")
	list(&output, r.Keywords.MatchedKeywords)
	heading(&output, f.Markdown, 2, "Critical Gaps")
	list(&output, out.Gaps.Critical)
	heading(&output, f.Markdown, 2, "Optional Gaps")
	list(&output, out.Gaps.Optional)

	if len(out.Gaps.WeakBullets) > 0 {
		heading(&output, f.Markdown, 2, "Weak Bullets")
		for _, wb := range out.Gaps.WeakBullets {
			output.WriteString(fmt.Sprintf("- %s (%s)\n", wb.Text, strings.Join(wb.Issues, ", ")))
		}
		output.WriteString("\n")
	}
	if len(r.Improvements) > 0 {
		heading(&output, f.Markdown, 2, "Strengths")
		list(&output, r.Improvements)
	}
	if len(r.RemainingGaps) > 0 {
		heading(&output, f.Markdown, 2, "Remaining Gaps")
		list(&output, r.RemainingGaps)
	}

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (f *ScoreFormatter) SupportedType() string {
	return TypeScore
}

// OptimizationFormatter prints an optimized resume with its score change
type OptimizationFormatter struct {
	Markdown bool
}

func (f *OptimizationFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected *types.OptimizationResult, got %T", data)
	}

	var output strings.Builder
	heading(&output, f.Markdown, 1, "Optimized Resume")
	output.WriteString(result.Optimized.Text())
	output.WriteString("\n\n")

	heading(&output, f.Markdown, 1, "ATS Analysis")
	output.WriteString(fmt.Sprintf("Score: %d/100 (was %d)\n", result.ScoreAfter, result.ScoreBefore))
	output.WriteString(fmt.Sprintf("Rewriter: %s\n\n", result.Rewriter))

	if len(result.Changes) > 0 {
		heading(&output, f.Markdown, 2, "Rewritten Sections")
		for _, c := range result.Changes {
			output.WriteString("- " + string(c.Section) + "\n")
		}
		output.WriteString("\n")
	}
	heading(&output, f.Markdown, 2, "Improvements")
	list(&output, result.Improvements)
	heading(&output, f.Markdown, 2, "Remaining Gaps")
	list(&output, result.RemainingGaps)

	return strings.TrimRight(output.String(), "\n") + "\n", nil
}

func (f *OptimizationFormatter) SupportedType() string {
	return TypeOptimization
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
