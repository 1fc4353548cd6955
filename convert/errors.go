package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vegasq/pq2csv/schema"
)

// Error kinds. Every error returned by Convert wraps exactly one of them.
var (
	ErrInputNotFound  = errors.New("input not found")
	ErrInputFormat    = errors.New("invalid input format")
	ErrColumnNotFound = errors.New("column not found")
	ErrOutputWrite    = errors.New("output write error")
	ErrUsage          = errors.New("invalid usage")
	ErrSchemaMismatch = schema.ErrMismatch
	ErrVerify         = errors.New("verification failed")
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitInput  = 1
	ExitOutput = 2
	ExitUsage  = 64
)

// ExitCode maps an error returned by Convert onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrColumnNotFound), errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrOutputWrite), errors.Is(err, ErrVerify):
		return ExitOutput
	default:
		// input failures, schema mismatches and interrupted runs
		return ExitInput
	}
}

// ColumnNotFoundError reports a --columns entry missing from the table.
type ColumnNotFoundError struct {
	Column    string
	Input     string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found in %s", e.Column, e.Input)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// Hint returns the list of available columns for error output.
func (e *ColumnNotFoundError) Hint() string {
	return "Available columns: " + strings.Join(e.Available, ", ")
}
