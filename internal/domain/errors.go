package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDataNotLoaded         = errors.New("index data not loaded")
	ErrEmptyQuestion         = errors.New("no question provided")
	ErrModelUnavailable      = errors.New("embedding model unavailable")
	ErrOutOfRange            = errors.New("fragment position out of range")
	ErrSynthesisUnavailable  = errors.New("answer synthesizer unavailable")
	ErrSynthesisUnconfigured = fmt.Errorf("%w: API key not configured", ErrSynthesisUnavailable)
	ErrNoContent             = errors.New("synthesizer returned no content")
	ErrNoDocuments           = errors.New("no documents in corpus")
	ErrDimensionMismatch     = errors.New("vector dimension mismatch")
)

// ContentBlockedError reports that the synthesizer refused to answer.
type ContentBlockedError struct {
	Reason string
}

func (e *ContentBlockedError) Error() string {
	return fmt.Sprintf("content blocked: %s", e.Reason)
}

// OpError attributes a failure to a pipeline stage.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func NewOpError(op string, err error) *OpError {
	return &OpError{Op: op, Err: err}
}
