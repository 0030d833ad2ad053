package cli

import (
	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/optimizer"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued optimization jobs",
	Long: `Consume optimization jobs enqueued by "atsbuilder serve" when queue.driver
is asynq. Job state is read from and written to the redis store shared with
the server. The worker stops on SIGINT or SIGTERM after finishing running jobs.`,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	if cfg.Queue.Driver != "asynq" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"the worker requires queue.driver: asynq", nil).
			WithContext("driver", cfg.Queue.Driver)
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{persistence: true, watchVocabulary: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("Starting optimization worker",
		"redis", cfg.Store.Redis.Addr,
		"queue", cfg.Queue.QueueName,
		"concurrency", cfg.Queue.Concurrency,
		"model", rt.rewriter.ModelEnabled())
	return optimizer.NewWorker(cfg.Store.Redis, cfg.Queue, rt.jobs.Process, logger).Run()
}
