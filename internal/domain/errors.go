package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrMissingScript  = errors.New("expected script, e.g.: cypar run --script cy:run")
	ErrTestsFailed    = errors.New("test failures")
	ErrWeightsMissing = errors.New("weight store not found")
)

// ConfigError is a fatal configuration problem detected before scheduling
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DiscoveryError means the spec directory could not be read
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("spec discovery in %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// WeightLoadWarning is returned alongside an empty table when the weight
// store is missing or corrupt. It is never fatal.
type WeightLoadWarning struct {
	Location string
	Err      error
}

func (e *WeightLoadWarning) Error() string {
	return fmt.Sprintf("weights not loaded from %s: %v", e.Location, e.Err)
}

func (e *WeightLoadWarning) Unwrap() error { return e.Err }

// WeightSaveError is a fatal failure to persist the new weight table
type WeightSaveError struct {
	Location string
	Err      error
}

func (e *WeightSaveError) Error() string {
	return fmt.Sprintf("failed to save weights to %s: %v", e.Location, e.Err)
}

func (e *WeightSaveError) Unwrap() error { return e.Err }

// ExitError carries a process exit code up to main without being printed
// as an error message.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// IsWarning reports whether err only signals a degraded but usable state
func IsWarning(err error) bool {
	var w *WeightLoadWarning
	return errors.As(err, &w)
}

// ExitCode maps an error returned by a command to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
