package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cypar/internal/domain"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "duration_mode")
	Value   any    // The invalid value
	Message string // Human-readable error description
	Err     error  // Optional sentinel for errors.Is
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the sentinel, if any
func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// ValidStrategies returns the supported scheduling strategies
func ValidStrategies() []string {
	return []string{StrategyWeighted, StrategyRoundRobin}
}

// ValidDurationModes returns the supported suite duration modes
func ValidDurationModes() []string {
	return []string{DurationCumulative, DurationPerSuite}
}

// ValidCollisionPolicies returns the supported suite name collision policies
func ValidCollisionPolicies() []string {
	return []string{CollisionOverwrite, CollisionMerge}
}

// ValidProgressModes returns the supported progress display modes
func ValidProgressModes() []string {
	return []string{ProgressAuto, ProgressLines, ProgressBar}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found.
// The runner script is checked separately by RequireScript since only the run command needs it.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Threads < 1 {
		errs = append(errs, ValidationError{Field: "threads", Value: c.Threads, Message: "must be at least 1"})
	}
	if strings.TrimSpace(c.SpecsDir) == "" {
		errs = append(errs, ValidationError{Field: "specs_dir", Value: c.SpecsDir, Message: "must not be empty"})
	}
	if strings.TrimSpace(c.SpecPattern) == "" {
		errs = append(errs, ValidationError{Field: "spec_pattern", Value: c.SpecPattern, Message: "must not be empty"})
	}
	if c.WeightsFile == "" && c.WeightsDSN == "" {
		errs = append(errs, ValidationError{Field: "weights_file", Value: c.WeightsFile, Message: "a weights file or weights_dsn is required"})
	}
	errs = appendOneOf(errs, "strategy", c.Strategy, ValidStrategies())
	errs = appendOneOf(errs, "duration_mode", c.DurationMode, ValidDurationModes())
	errs = appendOneOf(errs, "collision", c.Collision, ValidCollisionPolicies())
	errs = appendOneOf(errs, "progress", c.Progress, ValidProgressModes())
	errs = appendOneOf(errs, "log.level", strings.ToLower(c.Logging.Level), ValidLogLevels())

	return errs
}

// RequireScript fails with a *domain.ConfigError when no runner script is configured
func (c *Config) RequireScript() error {
	if strings.TrimSpace(c.Script) == "" {
		return &domain.ConfigError{Field: "script", Err: domain.ErrMissingScript}
	}
	return nil
}

func appendOneOf(errs []ValidationError, field, value string, valid []string) []ValidationError {
	if slices.Contains(valid, value) {
		return errs
	}
	return append(errs, ValidationError{
		Field:   field,
		Value:   value,
		Message: "must be one of " + strings.Join(valid, ", "),
	})
}

// AsConfigError wraps validation failures in a *domain.ConfigError
func AsConfigError(err error) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return &domain.ConfigError{Err: verrs}
	}
	return err
}
