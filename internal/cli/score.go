package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/optimizer"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/scoring"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

var scoreConfig common.CommandConfig

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score how well a resume covers a job description",
	Long: `Score a resume against a job description from 0 to 100. The report lists
the matched and missing keywords, a per-section breakdown, the critical and
optional skill gaps and the experience bullets that need work.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: resolveOutputFormat(&scoreConfig),
	RunE:    runScore,
}

func init() {
	addOutputFlags(scoreCmd, &scoreConfig)
}

type scoreInput struct {
	Resume         string
	JobDescription string
}

// scoreDocuments segments the resume, extracts the job description and
// assesses one against the other
func scoreDocuments(a *optimizer.Analyzer, in scoreInput) (*types.ScoreOutput, error) {
	s, err := a.Segmenter.Segment(in.Resume)
	if err != nil {
		return nil, err
	}
	ex, err := a.ExtractJD(in.JobDescription)
	if err != nil {
		return nil, err
	}
	return &types.ScoreOutput{
		Role:   ex.Role,
		Report: scoring.Analyze(s, ex, a.Weights),
		Gaps:   scoring.AnalyzeGaps(s, ex, a.Weights),
	}, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	err = common.RunCommand(cmd.Context(), rt.commandRunner(), scoreConfig, args,
		func(contents []string) (scoreInput, error) {
			if len(contents) != 2 {
				return scoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
			}
			return scoreInput{Resume: contents[0], JobDescription: contents[1]}, nil
		},
		func(_ context.Context, in scoreInput) (*types.ScoreOutput, error) {
			return scoreDocuments(rt.analyzer, in)
		},
		func(in scoreInput, cc common.CommandConfig) {
			logger.Info("Scoring resume",
				"resume_chars", len(in.Resume),
				"job_chars", len(in.JobDescription),
				"output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	return nil
}
