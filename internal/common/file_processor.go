package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/ingest"
	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/utils"
)

// FileProcessor reads input documents and writes command output
type FileProcessor struct {
	logger    *errors.Logger
	extractor *ingest.Extractor
}

// NewFileProcessor creates a file processor that rejects documents larger than maxSize
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, extractor: ingest.NewExtractor(maxSize)}
}

// ReadFile reads raw bytes from a file
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	return data, nil
}

// ReadDocument reads a text, PDF or DOCX file and returns its normalized
// text. Files with other extensions are read as plain text
func (fp *FileProcessor) ReadDocument(filename string) (string, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	data, err := fp.ReadFile(filename)
	if err != nil {
		return "", err
	}

	name := filename
	if !utils.IsSupportedDocument(filename) {
		fp.logger.Warn("File may not be a text file", "filename", filename)
		name += ".txt"
	}
	fp.logger.Debug("Read input document",
		"filename", filename,
		"kind", utils.KindOf(name),
		"size", utils.FormatFileSize(int64(len(data))))
	return fp.extractor.ExtractText(name, data)
}

// ValidateAndReadDocuments reads several documents in order
func (fp *FileProcessor) ValidateAndReadDocuments(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))
	for i, filename := range filenames {
		text, err := fp.ReadDocument(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = text
	}
	return contents, nil
}

// WriteFile writes data to a file, creating its directory
func (fp *FileProcessor) WriteFile(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
