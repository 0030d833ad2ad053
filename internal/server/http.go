// Package server exposes the resume pipeline over HTTP
package server

import (
	"time"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ai"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/blob"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	appErrors "github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ingest"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/observability"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/optimizer"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/store"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and collaborators of the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxRequestSize bounds JSON bodies and resume uploads
	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *appErrors.Logger

	analyzer      *optimizer.Analyzer
	store         store.Store
	blobs         blob.Store
	jobs          *optimizer.Service
	runner        optimizer.Runner
	rewriter      *ai.Service
	extractor     *ingest.Extractor
	fetcher       *ingest.Fetcher
	observability *observability.ObservabilityManager
}

// Dependencies are the pipeline components the handlers call into.
// Blobs, Rewriter, Fetcher and Observability may be nil
type Dependencies struct {
	Analyzer      *optimizer.Analyzer
	Store         store.Store
	Blobs         blob.Store
	Jobs          *optimizer.Service
	Runner        optimizer.Runner
	Rewriter      *ai.Service
	Fetcher       *ingest.Fetcher
	Observability *observability.ObservabilityManager
}

// NewServer creates a Server from the application configuration
func NewServer(appCfg *config.Config, version string, deps Dependencies, logger *appErrors.Logger) *Server {
	cfg := appCfg.Server

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	maxSize := cfg.MaxUploadSize
	if maxSize <= 0 {
		maxSize = ingest.DefaultMaxSize
	}

	fetcher := deps.Fetcher
	if fetcher == nil && cfg.AllowRemoteFetch {
		fetcher = ingest.NewFetcher(nil)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: maxSize,
		RateLimit:      &cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger.Component("http"),

		analyzer:      deps.Analyzer,
		store:         deps.Store,
		blobs:         deps.Blobs,
		jobs:          deps.Jobs,
		runner:        deps.Runner,
		rewriter:      deps.Rewriter,
		extractor:     ingest.NewExtractor(maxSize),
		fetcher:       fetcher,
		observability: deps.Observability,
	}
}
