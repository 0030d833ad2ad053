package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

var (
	optimizeConfig       common.CommandConfig
	optimizeExportFile   string
	optimizeExportFormat string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [resume-file] [job-description-file]",
	Short: "Rewrite a resume to cover a job description",
	Long: `Rewrite the summary, experience and skills of a resume so it covers more
of the keywords a job description asks for, without inventing experience.
A configured model API key enables model rewriting; otherwise a rule-based
rewrite is used.

The optimization report is written with --format. Use --export to also save
the optimized resume as a PDF, DOCX or markdown document.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveOutputFormat(&optimizeConfig)(cmd, args); err != nil {
			return err
		}
		if optimizeExportFile != "" {
			_, err := common.ResolveExportFormat(optimizeExportFormat, optimizeExportFile)
			return err
		}
		return nil
	},
	RunE: runOptimize,
}

func init() {
	addOutputFlags(optimizeCmd, &optimizeConfig)
	optimizeCmd.Flags().StringVar(&optimizeExportFile, "export", "", "Also write the optimized resume to this file")
	optimizeCmd.Flags().StringVar(&optimizeExportFormat, "export-format", "", "Document format: pdf, docx or md (default: from --export extension)")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	runner := rt.commandRunner()
	var result *types.OptimizationResult

	err = common.RunCommand(cmd.Context(), runner, optimizeConfig, args,
		func(contents []string) (scoreInput, error) {
			if len(contents) != 2 {
				return scoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
			}
			return scoreInput{Resume: contents[0], JobDescription: contents[1]}, nil
		},
		func(ctx context.Context, in scoreInput) (*types.OptimizationResult, error) {
			res, err := rt.engine.Optimize(ctx,
				&types.Resume{RawText: in.Resume},
				&types.JobDescription{RawText: in.JobDescription},
				func(progress int, step string) {
					logger.Debug("Optimization progress", "progress", progress, "step", step)
				})
			result = res
			return res, err
		},
		func(in scoreInput, cc common.CommandConfig) {
			logger.Info("Starting resume optimization",
				"resume_chars", len(in.Resume),
				"job_chars", len(in.JobDescription),
				"model", rt.rewriter.ModelEnabled(),
				"output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to optimize resume: %w", err)
	}

	if optimizeExportFile != "" {
		format, err := common.ResolveExportFormat(optimizeExportFormat, optimizeExportFile)
		if err != nil {
			return err
		}
		doc := export.Document{
			Sections:  result.Optimized,
			Score:     result.ScoreAfter,
			ShowScore: true,
			Keywords:  result.After.MatchedKeywords,
		}
		if err := runner.Output.HandleExport(doc, format, optimizeExportFile); err != nil {
			return fmt.Errorf("failed to export resume: %w", err)
		}
	}

	logger.Info("Resume optimization completed successfully",
		"score_before", result.ScoreBefore,
		"score_after", result.ScoreAfter,
		"rewriter", result.Rewriter)
	return nil
}
