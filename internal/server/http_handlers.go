package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appErrors "github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/store"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

const healthCheckTimeout = 5 * time.Second

// healthHandler reports store reachability and model availability
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "atsbuilder",
		"version": s.Version,
	}
	status := http.StatusOK

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			s.Logger.LogError(err, "Store health check failed")
			response["store"] = map[string]any{"available": false, "error": err.Error()}
			response["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			response["store"] = map[string]any{"available": true}
		}
	}

	if s.rewriter != nil {
		if info := s.rewriter.GetModelInfo(ctx); info != nil {
			response["ai_model"] = info
			// the rule-based rewriter still serves requests
			if !info.Available && status == http.StatusOK {
				response["status"] = "degraded"
			}
		} else {
			response["ai_model"] = map[string]any{"engine": "rules", "available": true}
		}
	}

	writeJSON(w, status, response)
}

// statsHandler reports limiter, breaker and store statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "atsbuilder",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"remote_fetch":           s.fetcher != nil,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}
	if s.rewriter != nil {
		response["rewriter"] = s.rewriter.Stats()
	}
	if mem, ok := s.store.(*store.Memory); ok {
		resumes, jds, jobs := mem.Len()
		response["store"] = map[string]any{
			"driver":           "memory",
			"resumes":          resumes,
			"job_descriptions": jds,
			"jobs":             jobs,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest decodes the JSON body into v and runs its Validate method
func parseJSONRequest(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return readError(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "failed to parse JSON body", err)
	}

	if validatable, ok := v.(interface{ Validate() error }); ok {
		if err := validatable.Validate(); err != nil {
			return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, validationMessage(err), err)
		}
	}
	return nil
}

func readError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return appErrors.NewValidationError(appErrors.ErrCodeFileTooLarge,
			fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
	}
	return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "failed to read request body", err)
}

// validationMessage turns validator field errors into one readable line
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "startswith":
			msgs = append(msgs, fmt.Sprintf("%s must start with %q", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// statusFor maps an application error onto an HTTP status
func statusFor(err error) int {
	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case appErrors.ErrorTypeValidation:
		switch appErr.Code {
		case appErrors.ErrCodeFileTooLarge:
			return http.StatusRequestEntityTooLarge
		case appErrors.ErrCodeInvalidFormat:
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	case appErrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case appErrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError logs server-side failures and writes the error body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code, message := "INTERNAL_ERROR", "internal server error"
	if appErr, ok := appErrors.AsAppError(err); ok {
		code, message = appErr.Code, appErr.Message
	}
	span := trace.SpanFromContext(r.Context())
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.code", code))
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path, "method", r.Method)
	} else {
		s.Logger.Debug("Request rejected", "endpoint", r.URL.Path, "code", code, "status", status)
	}
	writeErrorResponse(w, code, message, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: code, Message: message})
}

func jobStatus(job *types.Job) types.JobStatusResponse {
	return types.JobStatusResponse{
		JobID:    job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Step:     job.Step,
		Error:    job.Error,
	}
}
