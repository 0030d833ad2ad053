package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/config"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// Define custom private types for context keys
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// skipConfig marks commands that run without loading configuration
const skipConfig = "skip-config"

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "atsbuilder",
	Short: "Score and optimize resumes for applicant tracking systems",
	Long: `atsbuilder segments resumes into sections, extracts the keywords a job
description asks for, scores how well a resume covers them and rewrites the
resume to close the gaps. It runs as a CLI or as an HTTP service.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntimeContext,
}

// Execute runs the command tree. Configuration and the logger are loaded
// once flags are parsed and attached to the command context
func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func loadRuntimeContext(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadConfigFile(configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	level, err := errors.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	// stdout carries command output
	logger := errors.NewLoggerWithWriter(os.Stderr, level)

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	logger.Debug("Starting atsbuilder",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"ai_enabled", cfg.AIEnabled())

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "configuration not loaded", nil)
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "logger not initialized", nil)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml, $HOME/.atsbuilder, /etc/atsbuilder)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(versionCmd)
}
