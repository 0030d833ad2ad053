package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/blob"
	appErrors "github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/store"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

const (
	multipartMemory = 32 << 20
	previewLength   = 500
)

// jdResponse flattens the extraction next to the stored ID
type jdResponse struct {
	JDID string `json:"jdId"`
	*jdextract.Extraction
}

// startSpan starts a request span and returns the request carrying it
func (s *Server) startSpan(r *http.Request, name string) (*http.Request, trace.Span) {
	ctx, span := s.observability.Tracer("atsbuilder.api").Start(r.Context(), name)
	return r.WithContext(ctx), span
}

// uploadResumeHandler accepts a multipart "file" (pdf, docx, txt) or a
// "text" form field, segments it and stores the resume
func (s *Server) uploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.resume.upload")
	defer span.End()
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if stderrors.Is(err, http.ErrNotMultipart) {
			s.writeError(w, r, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				"expected multipart/form-data with a file or text field", err))
			return
		}
		s.writeError(w, r, readError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var (
		filename string
		data     []byte
		text     string
	)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		filename = header.Filename
		if data, err = io.ReadAll(file); err != nil {
			s.writeError(w, r, readError(err))
			return
		}
		if text, err = s.extractor.ExtractText(filename, data); err != nil {
			s.writeError(w, r, err)
			return
		}
	case stderrors.Is(err, http.ErrMissingFile):
		text = strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			s.writeError(w, r, appErrors.NewValidationError(appErrors.ErrCodeInvalidInput, "provide either a file or text", nil))
			return
		}
	default:
		s.writeError(w, r, readError(err))
		return
	}

	secs, err := s.analyzer.Segmenter.Segment(text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := time.Now().UTC()
	resume := &types.Resume{
		ID:        store.NewID(types.ResumePrefix),
		Filename:  filename,
		RawText:   text,
		Sections:  secs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if data != nil {
		resume.BlobKey = s.archive(ctx, resume.ID, filename, data)
	}
	if err := s.store.SaveResume(ctx, resume); err != nil {
		s.writeError(w, r, err)
		return
	}

	kind := string(utils.KindText)
	if filename != "" {
		kind = string(utils.KindOf(filename))
	}
	s.observability.GetMetrics().RecordResumeUploaded(ctx, kind, int64(len(text)))
	span.SetAttributes(
		attribute.String("resume.id", resume.ID),
		attribute.String("resume.kind", kind),
		attribute.Int("resume.sections", secs.Len()),
	)

	writeJSON(w, http.StatusCreated, types.UploadResponse{
		ResumeID: resume.ID,
		Filename: filename,
		Sections: secs,
		Preview:  utils.Truncate(text, previewLength),
	})
}

// archive keeps the uploaded original. Failures are logged and the upload proceeds
func (s *Server) archive(ctx context.Context, resumeID, filename string, data []byte) string {
	if s.blobs == nil {
		return ""
	}
	key := blob.Key(resumeID, filename)
	if err := s.blobs.Put(ctx, key, data, blob.ContentType(filename)); err != nil {
		s.Logger.LogError(err, "Failed to archive uploaded resume", "resume_id", resumeID)
		return ""
	}
	return key
}

func (s *Server) getResumeHandler(w http.ResponseWriter, r *http.Request) {
	resume, err := s.store.GetResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// updateSectionsHandler replaces section bodies; an empty body removes the section
func (s *Server) updateSectionsHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.resume.update_sections")
	defer span.End()
	ctx := r.Context()

	var req types.UpdateSectionsRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := s.store.GetResume(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	secs := resume.Sections.Clone()
	// new sections are appended, so apply them in conventional order
	for _, name := range sections.Known {
		for key, body := range req.Sections {
			if n, _ := sections.ParseName(key); n == name {
				secs.Set(name, strings.TrimSpace(body))
			}
		}
	}
	resume.Sections = secs
	resume.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveResume(ctx, resume); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "updated",
		"resumeId": resume.ID,
		"sections": secs,
	})
}

// formattedResumeHandler renders the resume as markdown, bolding the
// primary keywords and hard skills of the jdId job description
func (s *Server) formattedResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resume, err := s.store.GetResume(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matched, highlight := []string{}, []string{}
	if jdID := r.URL.Query().Get("jdId"); jdID != "" {
		jd, err := s.store.GetJobDescription(ctx, jdID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var candidates []string
		if jd.Extraction != nil {
			candidates = append(slices.Clone(jd.Extraction.Keywords.Primary), jd.Extraction.HardSkills...)
		}
		corpus := resume.Sections.Corpus()
		for _, kw := range candidates {
			if !slices.Contains(matched, kw) && scoring.ContainsAny(corpus, jd.Extraction.Forms(kw)) {
				matched = append(matched, kw)
				highlight = append(highlight, jd.Extraction.Forms(kw)...)
			}
		}
	}

	writeJSON(w, http.StatusOK, types.FormattedResumeResponse{
		ResumeID:        resume.ID,
		FormattedResume: export.Markdown(export.Document{Sections: resume.Sections, Keywords: highlight}),
		MatchedKeywords: matched,
	})
}

// extractJDHandler extracts and stores a pasted or fetched job description
func (s *Server) extractJDHandler(w http.ResponseWriter, r *http.Request) {
	r, span := s.startSpan(r, "api.jd.extract")
	defer span.End()
	ctx := r.Context()

	var req types.ExtractJDRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	text, source := strings.TrimSpace(req.Text), "text"
	if text == "" && req.URL != "" {
		if s.fetcher == nil {
			s.writeError(w, r, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				"URL extraction is disabled, paste the job description text instead", nil))
			return
		}
		fetched, err := s.fetcher.FetchJobDescription(ctx, req.URL)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		text, source = fetched, "url"
	}

	if minLen := s.AppConfig.Analysis.MinJobDescriptionLength; utf8.RuneCountInString(text) < minLen {
		s.writeError(w, r, appErrors.NewValidationError(appErrors.ErrCodeInvalidInput,
			"job description too short", nil).WithContext("min_length", minLen))
		return
	}

	ex, err := s.analyzer.ExtractJD(text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jd := &types.JobDescription{
		ID:         store.NewID(types.JobDescriptionPrefix),
		RawText:    text,
		Extraction: ex,
		CreatedAt:  time.Now().UTC(),
	}
	if source == "url" {
		jd.SourceURL = req.URL
	}
	if err := s.store.SaveJobDescription(ctx, jd); err != nil {
		s.writeError(w, r, err)
		return
	}

	terms := len(ex.Keywords.Primary) + len(ex.Keywords.Secondary)
	s.observability.GetMetrics().RecordJobDescription(ctx, source, terms)
	span.SetAttributes(
		attribute.String("jd.id", jd.ID),
		attribute.String("jd.source", source),
		attribute.Int("jd.terms", terms),
	)

	writeJSON(w, http.StatusCreated, jdResponse{JDID: jd.ID, Extraction: ex})
}

func (s *Server) getJDHandler(w http.ResponseWriter, r *http.Request) {
	jd, err := s.store.GetJobDescription(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jd)
}
