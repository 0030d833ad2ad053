package ai

import (
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

// guardRewrite keeps a model rewrite only where it stays truthful: no
// metrics or vocabulary terms absent from the resume, and experience and
// skills no longer than twice the original. Rejected sections take the
// fallback body and are reported by name; kept counts the model sections used
func guardRewrite(in RewriteInput, model, fallback RewriteOutput) (out RewriteOutput, kept int, discarded []string) {
	s := in.Sections
	if s == nil {
		s = sections.New()
	}
	corpus := rawCorpus(s)
	terms := vocabularyTerms(in.Extraction)

	check := func(name sections.Name, got, alt string, limitGrowth bool) string {
		orig, _ := s.Get(name)
		ref := orig
		if strings.TrimSpace(orig) == "" {
			if name != sections.Summary {
				return alt
			}
			ref = corpus
		}
		ok := strings.TrimSpace(got) != "" &&
			!introducesMetrics(ref, got) &&
			!introducesTerms(corpus, got, in.Extraction, terms)
		if ok && limitGrowth && len(got) > maxRewriteGrowthRatio*len(orig) {
			ok = false
		}
		if ok {
			kept++
			return strings.TrimSpace(got)
		}
		discarded = append(discarded, string(name))
		return alt
	}

	out = RewriteOutput{
		Summary:    check(sections.Summary, model.Summary, fallback.Summary, false),
		Experience: check(sections.Experience, model.Experience, fallback.Experience, true),
		Skills:     check(sections.Skills, model.Skills, fallback.Skills, true),
	}
	return out, kept, discarded
}

func vocabularyTerms(ex *jdextract.Extraction) []string {
	if ex == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{ex.Keywords.Primary, ex.Keywords.Secondary, ex.HardSkills, ex.SoftSkills, ex.Tools} {
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func introducesTerms(corpus, rewritten string, ex *jdextract.Extraction, terms []string) bool {
	for _, t := range terms {
		forms := ex.Forms(t)
		if scoring.ContainsAny(rewritten, forms) && !scoring.ContainsAny(corpus, forms) {
			return true
		}
	}
	return false
}
