package report

import (
	"errors"
	"fmt"
)

// Errors a caller can match with errors.Is. None of them are retryable.
var (
	ErrMissingSheet   = errors.New("source sheet not found")
	ErrMissingColumn  = errors.New("TIMESTAMP column not found")
	ErrInvalidVariant = errors.New("invalid report variant")
	ErrInvalidMode    = errors.New("invalid output mode")
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string // "load", "locate", "extract", "render", "save"
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
