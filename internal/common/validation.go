package common

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/export"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// ValidateOutputFormat checks format against the configured report formats.
// An empty list allows every format
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format '%s'. Supported formats: %v", format, supportedFormats), nil)
}

// ResolveExportFormat picks the export format from an explicit flag or, when
// the flag is empty, from the output file extension
func ResolveExportFormat(flag, outputFile string) (export.Format, error) {
	if flag == "" && outputFile != "" {
		switch ext := strings.TrimPrefix(utils.GetFileExtension(outputFile), "."); ext {
		case "pdf", "docx", "md", "markdown":
			flag = ext
		}
	}
	return export.ParseFormat(flag)
}
