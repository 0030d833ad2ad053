package server

import (
	"net/http"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// segmentHandler splits resume text into sections without storing it
func (s *Server) segmentHandler(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	secs, err := s.analyzer.Segmenter.Segment(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": secs})
}

// extractHandler extracts job description keywords without storing them
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req types.TextRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ex, err := s.analyzer.ExtractJD(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// scoreHandler scores a resume against a job description, each given as
// text or as a stored ID
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.score")
	defer span.End()

	var req types.ScoreRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	secs, err := s.resumeSections(r, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ex, err := s.extraction(r, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	weights := s.analyzer.Weights
	out := &types.ScoreOutput{
		Role:   ex.Role,
		Report: scoring.Analyze(secs, ex, weights),
		Gaps:   scoring.AnalyzeGaps(secs, ex, weights),
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) resumeSections(r *http.Request, req types.ScoreRequest) (*sections.Sections, error) {
	if req.ResumeID == "" {
		return s.analyzer.Segmenter.Segment(req.Resume)
	}
	resume, err := s.store.GetResume(r.Context(), req.ResumeID)
	if err != nil {
		return nil, err
	}
	if resume.Sections != nil {
		return resume.Sections, nil
	}
	return s.analyzer.Segmenter.Segment(resume.RawText)
}

func (s *Server) extraction(r *http.Request, req types.ScoreRequest) (*jdextract.Extraction, error) {
	if req.JDID == "" {
		return s.analyzer.ExtractJD(req.JobDescription)
	}
	jd, err := s.store.GetJobDescription(r.Context(), req.JDID)
	if err != nil {
		return nil, err
	}
	if jd.Extraction != nil {
		return jd.Extraction, nil
	}
	return s.analyzer.ExtractJD(jd.RawText)
}
