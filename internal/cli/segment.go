package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/sections"
)

var segmentConfig common.CommandConfig

var segmentCmd = &cobra.Command{
	Use:   "segment [resume-file]",
	Short: "Split a resume into its sections",
	Long: `Split a resume (.txt, .md, .pdf or .docx) into summary, experience,
skills, education, projects, certifications and other sections by
recognizing its headings.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&segmentConfig),
	RunE:    runSegment,
}

func init() {
	addOutputFlags(segmentCmd, &segmentConfig)
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	err = common.RunCommand(cmd.Context(), rt.commandRunner(), segmentConfig, args,
		func(contents []string) (string, error) { return contents[0], nil },
		func(_ context.Context, text string) (*sections.Sections, error) {
			return rt.analyzer.Segmenter.Segment(text)
		},
		func(text string, cc common.CommandConfig) {
			logger.Info("Segmenting resume", "resume_chars", len(text), "output_format", cc.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to segment resume: %w", err)
	}
	return nil
}
