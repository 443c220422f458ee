// Package service implements the asset store, the external tool adapter,
// the analysis job orchestrator and the trim/export service
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an asset, media file or job can't be
	// located. Handlers translate it to a 404
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for bad request fields or disallowed
	// file types. Handlers translate it to a 400
	ErrInvalidInput = errors.New("invalid input")
)

// ToolError is returned when an external tool runs but exits with a non-zero
// code. Stderr carries whatever the tool printed so it can be surfaced to
// the caller.
type ToolError struct {
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool exited with code %d: %s", e.ExitCode, e.Stderr)
}

// SpawnError is returned when the external tool can't be started at all,
// e.g. the executable is missing or not runnable.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
