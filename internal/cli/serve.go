package cli

import (
	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/server"
)

var (
	servePort string
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that exposes resume upload, job description
extraction, optimization jobs and document export as a REST API.

Available endpoints:
- POST /api/v1/resumes: Upload a resume file or text
- POST /api/v1/jd/extract: Extract a job description from text or a URL
- POST /api/v1/optimize: Start an optimization job
- GET /api/v1/jobs/{id}: Poll job status
- GET /api/v1/jobs/{id}/download: Download the optimized resume
- POST /api/v1/segment, /api/v1/extract, /api/v1/score: Stateless analysis
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

With queue.driver set to asynq, jobs are enqueued in redis and processed
by "atsbuilder worker".`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{persistence: true, watchVocabulary: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	deps := server.Dependencies{
		Analyzer:      rt.analyzer,
		Store:         rt.store,
		Blobs:         rt.blobs,
		Jobs:          rt.jobs,
		Runner:        rt.runner(),
		Rewriter:      rt.rewriter,
		Observability: rt.observability,
	}
	return server.NewServer(cfg, Version, deps, logger).Start()
}
