package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ingest"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/jdextract"
)

var (
	extractConfig common.CommandConfig
	extractURL    string
)

var extractCmd = &cobra.Command{
	Use:   "extract [job-description-file]",
	Short: "Extract role, skills and keywords from a job description",
	Long: `Extract the role title, seniority, hard skills, soft skills, tools and
the primary and secondary keywords of a job description. The description is
read from a file or, with --url, downloaded from a job posting page.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if extractURL != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	PreRunE: resolveOutputFormat(&extractConfig),
	RunE:    runExtract,
}

func init() {
	addOutputFlags(extractCmd, &extractConfig)
	extractCmd.Flags().StringVar(&extractURL, "url", "", "Fetch the job description from this URL instead of a file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	extract := func(_ context.Context, text string) (*jdextract.Extraction, error) {
		return rt.analyzer.ExtractJD(text)
	}
	runner := rt.commandRunner()

	if extractURL != "" {
		logger.Info("Fetching job description", "url", extractURL)
		text, err := ingest.FetchJobDescription(cmd.Context(), extractURL)
		if err != nil {
			return fmt.Errorf("failed to fetch job description: %w", err)
		}
		result, err := extract(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to extract job description: %w", err)
		}
		return runner.Output.HandleOutput(result, extractConfig)
	}

	err = common.RunCommand(cmd.Context(), runner, extractConfig, args,
		func(contents []string) (string, error) { return contents[0], nil },
		extract,
		func(text string, cc common.CommandConfig) {
			logger.Info("Extracting job description", "job_chars", len(text), "output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to extract job description: %w", err)
	}
	return nil
}
