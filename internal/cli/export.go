package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/common"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/types"
)

var (
	exportOutput    string
	exportFormat    string
	exportJobID     string
	exportShowScore bool
)

var exportCmd = &cobra.Command{
	Use:   "export [resume-file]",
	Short: "Render a resume as PDF, DOCX or markdown",
	Long: `Render a resume as an ATS-friendly PDF, DOCX or markdown document.

With a resume file the document is segmented and rendered as-is. With --job
the optimized resume of a completed job is read from the configured store,
which must be shared with the server (store.driver: redis).`,
	Args: func(cmd *cobra.Command, args []string) error {
		if exportJobID != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Document format: pdf, docx or md (default: from output extension, else pdf)")
	exportCmd.Flags().StringVar(&exportJobID, "job", "", "Export the result of a stored optimization job")
	exportCmd.Flags().BoolVar(&exportShowScore, "show-score", true, "Print the ATS score in the header of job exports")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromCommand(cmd.Context())
	if err != nil {
		return err
	}
	format, err := common.ResolveExportFormat(exportFormat, exportOutput)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, runtimeOptions{persistence: exportJobID != ""})
	if err != nil {
		return err
	}
	defer rt.Close()
	runner := rt.commandRunner()

	var doc export.Document
	if exportJobID != "" {
		job, err := rt.store.GetJob(cmd.Context(), exportJobID)
		if err != nil {
			return err
		}
		if job.Status != types.JobCompleted || job.Result == nil {
			return errors.NewValidationError(errors.ErrCodeJobNotCompleted,
				fmt.Sprintf("job not completed, status: %s", job.Status), nil)
		}
		doc = export.Document{
			Sections:  job.Result.Optimized,
			Score:     job.Result.ScoreAfter,
			ShowScore: exportShowScore,
			Keywords:  job.Result.After.MatchedKeywords,
		}
	} else {
		text, err := runner.Files.ReadDocument(args[0])
		if err != nil {
			return err
		}
		s, err := rt.analyzer.Segmenter.Segment(text)
		if err != nil {
			return err
		}
		doc = export.Document{Sections: s}
	}

	logger.Info("Exporting resume", "format", string(format), "job_id", exportJobID)
	if err := runner.Output.HandleExport(doc, format, exportOutput); err != nil {
		return fmt.Errorf("failed to export resume: %w", err)
	}
	return nil
}
