package common

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler writing to stdout
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return NewOutputHandlerWithWriter(logger, os.Stdout)
}

// NewOutputHandlerWithWriter creates an output handler that prints to w when
// no output file is given
func NewOutputHandlerWithWriter(logger *errors.Logger, w io.Writer) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger, 0),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        w,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}
	return oh.write([]byte(output), config.OutputFile, config.OutputFormat)
}

// HandleExport renders doc as an export document and writes it
func (oh *OutputHandler) HandleExport(doc export.Document, format export.Format, outputFile string) error {
	var buf bytes.Buffer
	if err := export.Render(&buf, format, doc); err != nil {
		return err
	}
	return oh.write(buf.Bytes(), outputFile, string(format))
}

func (oh *OutputHandler) write(data []byte, outputFile, format string) error {
	if outputFile == "" {
		_, err := oh.stdout.Write(data)
		return err
	}
	if err := oh.fileProcessor.ValidateOutputFile(outputFile); err != nil {
		return err
	}
	if err := oh.fileProcessor.WriteFile(outputFile, data); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully", "file", outputFile, "format", format)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
