package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	appErrors "github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

// resultResponse flattens the optimization result next to the job ID
type resultResponse struct {
	JobID string `json:"jobId"`
	*types.OptimizationResult
}

// optimizeHandler creates a job and hands it to the configured runner
func (s *Server) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.optimize")
	defer span.End()

	var req types.OptimizeInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.jobs.Submit(r.Context(), s.runner, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	span.SetAttributes(attribute.String("job.id", job.ID))

	writeJSON(w, http.StatusAccepted, jobStatus(job))
}

func (s *Server) jobStatusHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobStatus(job))
}

// completedJob loads a job and rejects it unless it completed
func (s *Server) completedJob(r *http.Request) (*types.Job, error) {
	job, err := s.store.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if job.Status != types.JobCompleted || job.Result == nil {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeJobNotCompleted,
			fmt.Sprintf("job not completed, status: %s", job.Status), nil).
			WithContext("job_id", job.ID)
	}
	return job, nil
}

func (s *Server) jobResultHandler(w http.ResponseWriter, r *http.Request) {
	job, err := s.completedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{JobID: job.ID, OptimizationResult: job.Result})
}

// downloadHandler exports the optimized resume as pdf (default), docx or md
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.download")
	defer span.End()

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeErrorResponse(w, appErrors.ErrCodeInvalidFormat, "format must be pdf, docx or md", http.StatusBadRequest)
		return
	}
	job, err := s.completedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := job.Result
	var buf bytes.Buffer
	err = export.Render(&buf, format, export.Document{
		Sections:  result.Optimized,
		Score:     result.ScoreAfter,
		ShowScore: true,
		Keywords:  result.After.MatchedKeywords,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	span.SetAttributes(
		attribute.String("export.format", string(format)),
		attribute.Int("export.bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
