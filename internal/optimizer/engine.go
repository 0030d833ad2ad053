package optimizer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ai"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/observability"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// Pipeline steps reported through ProgressFunc
const (
	StepAnalyzing = "Analyzing resume and job description"
	StepScoring   = "Scoring keyword coverage"
	StepRewriting = "Rewriting resume"
	StepRescoring = "Calculating ATS score"
	StepComplete  = "Complete"
)

// ProgressFunc receives pipeline progress in percent and the current step
type ProgressFunc func(progress int, step string)

// Engine runs one optimization: analyze, score, rewrite, rescore
type Engine struct {
	analyzer *Analyzer
	rewriter *ai.Service
	metrics  *observability.Metrics
	logger   *errors.Logger
}

// NewEngine creates an engine. metrics may be nil
func NewEngine(analyzer *Analyzer, rewriter *ai.Service, metrics *observability.Metrics, logger *errors.Logger) *Engine {
	return &Engine{analyzer: analyzer, rewriter: rewriter, metrics: metrics, logger: logger.Component("optimizer")}
}

// Optimize rewrites resume for jd. Stored sections and extractions are used
// as-is; missing ones are computed from the raw text concurrently
func (e *Engine) Optimize(ctx context.Context, resume *types.Resume, jd *types.JobDescription, progress ProgressFunc) (*types.OptimizationResult, error) {
	if progress == nil {
		progress = func(int, string) {}
	}
	progress(10, StepAnalyzing)

	resumeSections, ex, err := e.prepare(resume, jd)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(30, StepScoring)
	w := e.analyzer.Weights
	before := scoring.Score(resumeSections, ex, w)
	gaps := scoring.AnalyzeGaps(resumeSections, ex, w)

	progress(60, StepRewriting)
	start := time.Now()
	rewrite, err := e.rewriter.Rewrite(ctx, ai.RewriteInput{Sections: resumeSections, Extraction: ex, Gaps: gaps})
	e.metrics.RecordRewrite(ctx, rewrite.Engine, time.Since(start), tokenUsage(rewrite.Usage), err)
	if err != nil {
		return nil, err
	}

	optimized, changes := applyRewrite(resumeSections, rewrite.RewriteOutput)

	progress(90, StepRescoring)
	after := scoring.Score(optimized, ex, w)
	report := scoring.Analyze(optimized, ex, w)

	improvements := []string{}
	if after.Score > before.Score {
		improvements = append(improvements, fmt.Sprintf("+ Keyword score improved from %d to %d", before.Score, after.Score))
	}
	if added := newlyMatched(before, after); len(added) > 0 {
		improvements = append(improvements, fmt.Sprintf("+ Now matches %d more keywords", len(added)))
	}
	improvements = append(improvements, report.Improvements...)

	e.logger.Info("Optimization finished",
		"resume_id", resume.ID,
		"jd_id", jd.ID,
		"engine", rewrite.Engine,
		"score_before", before.Score,
		"score_after", after.Score,
		"changed_sections", len(changes))

	return &types.OptimizationResult{
		ResumeID:      resume.ID,
		JDID:          jd.ID,
		Role:          ex.Role,
		Optimized:     optimized,
		Changes:       changes,
		Rewriter:      rewrite.Engine,
		ScoreBefore:   before.Score,
		ScoreAfter:    after.Score,
		Before:        before,
		After:         after,
		Report:        report,
		Improvements:  improvements,
		RemainingGaps: report.RemainingGaps,
	}, nil
}

func (e *Engine) prepare(resume *types.Resume, jd *types.JobDescription) (*sections.Sections, *jdextract.Extraction, error) {
	resumeSections, ex := resume.Sections, jd.Extraction

	var g errgroup.Group
	if resumeSections == nil {
		g.Go(func() error {
			s, err := e.analyzer.Segmenter.Segment(resume.RawText)
			resumeSections = s
			return err
		})
	}
	if ex == nil {
		g.Go(func() error {
			x, err := e.analyzer.ExtractJD(jd.RawText)
			ex = x
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resumeSections, ex, nil
}

// rewritable lists the sections a rewrite may replace, in output order
var rewritable = []sections.Name{sections.Summary, sections.Experience, sections.Skills}

// applyRewrite returns a copy of s with the rewritten bodies and the list of
// sections that actually changed. A summary the resume lacked is inserted
// after any leading contact block
func applyRewrite(s *sections.Sections, out ai.RewriteOutput) (*sections.Sections, []types.SectionChange) {
	bodies := map[sections.Name]string{
		sections.Summary:    out.Summary,
		sections.Experience: out.Experience,
		sections.Skills:     out.Skills,
	}

	optimized := s.Clone()
	changes := []types.SectionChange{}
	for _, name := range rewritable {
		after := bodies[name]
		if after == "" {
			continue
		}
		before, had := s.Get(name)
		if before == after {
			continue
		}
		if !had && name == sections.Summary {
			optimized = withLeadingSummary(optimized, after)
		} else {
			optimized.Set(name, after)
		}
		changes = append(changes, types.SectionChange{Section: name, Before: before, After: after})
	}
	return optimized, changes
}

func withLeadingSummary(s *sections.Sections, summary string) *sections.Sections {
	entries := s.Entries()
	at := 0
	if len(entries) > 0 && entries[0].Name == sections.Other {
		at = 1
	}
	out := append([]sections.Section{}, entries[:at]...)
	out = append(out, sections.Section{Name: sections.Summary, Body: summary})
	out = append(out, entries[at:]...)
	return sections.New(out...)
}

func newlyMatched(before, after scoring.Result) []string {
	had := make(map[string]bool, len(before.MatchedKeywords))
	for _, kw := range before.MatchedKeywords {
		had[kw] = true
	}
	var added []string
	for _, kw := range after.MatchedKeywords {
		if !had[kw] {
			added = append(added, kw)
		}
	}
	return added
}

func tokenUsage(u *ai.TokenUsage) *observability.TokenUsage {
	if u == nil {
		return nil
	}
	return &observability.TokenUsage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
}
