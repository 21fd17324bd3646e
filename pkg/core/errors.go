// Package core provides the pipeline client that orchestrates candidate
// generation, selection, embedding and persistence.
package core

import (
	"errors"
	"fmt"

	"github.com/evotext/evotext-go/pkg/storage"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed indicates that embedding generation failed.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrConnectionFailed indicates that a connection to the storage backend failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrMemoryConsistency indicates that a record insert violated the
	// store's uniqueness guarantee. It is the storage package's sentinel,
	// re-exported so callers can check pipeline errors without importing
	// the storage package.
	ErrMemoryConsistency = storage.ErrConsistency
)

// PipelineError wraps errors with operation context.
//
// It records which pipeline operation failed, making error messages more
// informative for debugging.
//
// Example:
//
//	err := &PipelineError{
//	    Op:  "ProcessPrompt",
//	    Err: ErrEmbeddingFailed,
//	}
//	// Error() returns: "evotext: ProcessPrompt: embedding generation failed"
type PipelineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "evotext: <Op>: <Err>"
func (e *PipelineError) Error() string {
	return fmt.Sprintf("evotext: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewPipelineError("ProcessPrompt", err)
//	}
func NewPipelineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{
		Op:  op,
		Err: err,
	}
}
