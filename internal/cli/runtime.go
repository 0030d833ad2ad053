package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ai"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/blob"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/observability"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/optimizer"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/store"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/watch"
)

// localBacklog is how many jobs may wait for a free in-process worker
const localBacklog = 100

// runtime wires the pipeline components a command needs. Fields a command
// did not ask for stay nil
type runtime struct {
	cfg    *config.Config
	logger *errors.Logger

	observability *observability.ObservabilityManager
	analyzer      *optimizer.Analyzer
	rewriter      *ai.Service
	engine        *optimizer.Engine

	store store.Store
	blobs blob.Store
	jobs  *optimizer.Service

	vocabWatcher *watch.FileWatcher
	closers      []func() error
}

type runtimeOptions struct {
	// persistence opens the store and blob archive and creates the job service
	persistence bool
	// watchVocabulary reloads an override vocabulary file on change
	watchVocabulary bool
}

func runtimeFromCommand(ctx context.Context) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts runtimeOptions) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: logger}

	obs, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	rt.observability = obs
	rt.closers = append(rt.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return obs.Shutdown(shutdownCtx)
	})

	rt.analyzer, err = optimizer.NewAnalyzer(cfg.Analysis)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if opts.watchVocabulary {
		fw, err := rt.analyzer.WatchVocabulary(cfg.Analysis, logger.Component("vocabulary"))
		if err != nil {
			rt.Close()
			return nil, err
		}
		if fw != nil {
			rt.vocabWatcher = fw
			rt.closers = append(rt.closers, fw.Stop)
		}
	}

	var rewriteCfg *config.OperationAIConfig
	if cfg.AIEnabled() {
		c := cfg.GetRewriteConfig()
		rewriteCfg = &c
	}
	rt.rewriter, err = ai.NewService(rewriteCfg, logger.Component("rewriter"))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create rewrite service: %w", err)
	}
	rt.closers = append(rt.closers, rt.rewriter.Close)

	metrics := obs.GetMetrics()
	rt.engine = optimizer.NewEngine(rt.analyzer, rt.rewriter, metrics, logger)

	if opts.persistence {
		rt.store, err = store.New(cfg.Store)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, rt.store.Close)

		rt.blobs, err = blob.New(ctx, cfg.Blob)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.jobs = optimizer.NewService(rt.store, rt.engine, metrics, cfg.Queue.Timeout, logger)
	}
	return rt, nil
}

// runner returns the job runner selected by queue.driver
func (rt *runtime) runner() optimizer.Runner {
	var r optimizer.Runner
	switch rt.cfg.Queue.Driver {
	case "asynq":
		r = optimizer.NewAsynqRunner(rt.cfg.Store.Redis, rt.cfg.Queue)
	default:
		r = optimizer.NewLocalRunner(rt.cfg.Queue.Concurrency, localBacklog, rt.jobs.Process, rt.logger)
	}
	rt.closers = append(rt.closers, r.Close)
	return r
}

// commandRunner returns the document reader and output writer for file commands
func (rt *runtime) commandRunner() *common.Runner {
	return common.NewRunner(rt.logger, rt.cfg.App.MaxFileSize)
}

// Close releases components in reverse order of creation
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.LogError(err, "Failed to release component")
		}
	}
	rt.closers = nil
}
