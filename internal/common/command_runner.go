package common

import (
	"context"
	"fmt"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// CreateInputFunc builds the operation input from the text of the input documents
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is one pipeline operation run by a command
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// Runner holds what every file-based command needs
type Runner struct {
	Logger *errors.Logger
	Files  *FileProcessor
	Output *OutputHandler
}

// NewRunner creates a runner reading documents up to maxSize bytes
func NewRunner(logger *errors.Logger, maxSize int64) *Runner {
	return &Runner{
		Logger: logger,
		Files:  NewFileProcessor(logger, maxSize),
		Output: NewOutputHandler(logger),
	}
}

// RunCommand reads the documents named by args, runs the operation and
// writes its formatted result
func RunCommand[Input, Output any](
	ctx context.Context,
	r *Runner,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	contents, err := r.Files.ValidateAndReadDocuments(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	return r.Output.HandleOutput(result, cmdConfig)
}
