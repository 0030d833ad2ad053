package server

import (
	"net/http"
)

// Handler returns the routed, instrumented HTTP handler
func (s *Server) Handler() http.Handler {
	return s.observability.HTTPMiddleware()(s.setupRoutes())
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(h))))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	api("POST /api/v1/resumes", s.uploadResumeHandler)
	api("GET /api/v1/resumes/{id}", s.getResumeHandler)
	api("PUT /api/v1/resumes/{id}/sections", s.updateSectionsHandler)
	api("GET /api/v1/resumes/{id}/formatted", s.formattedResumeHandler)

	api("POST /api/v1/jd/extract", s.extractJDHandler)
	api("GET /api/v1/jd/{id}", s.getJDHandler)

	api("POST /api/v1/optimize", s.optimizeHandler)
	api("GET /api/v1/jobs/{id}", s.jobStatusHandler)
	api("GET /api/v1/jobs/{id}/result", s.jobResultHandler)
	api("GET /api/v1/jobs/{id}/download", s.downloadHandler)

	api("POST /api/v1/segment", s.segmentHandler)
	api("POST /api/v1/extract", s.extractHandler)
	api("POST /api/v1/score", s.scoreHandler)

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "MISSING_API_KEY", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "INVALID_API_KEY", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MaxRequestSize > 0 {
			// multipart framing adds a little on top of the file itself
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize+64*1024)
		}
		next(w, r)
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
