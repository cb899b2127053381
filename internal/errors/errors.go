// Package errors provides a lightweight structured error type (CommandError)
// for category-based classification of workflow failures in the CLI.
package errors

import (
	"fmt"
	"strings"
)

// Category classifies a CommandError for reporting purposes.
type Category string

const (
	// User-facing configuration and input errors, reported before any side effect.
	CategoryConfig Category = "config"

	// Resolution errors: a required fact (version, repository) could not be determined.
	CategoryResolution Category = "resolution"

	// Version control errors (clone, stash, commit).
	CategoryGit Category = "git"

	// External tool errors (templating engine, hook manager).
	CategoryTool Category = "tool"

	// Anything else.
	CategoryInternal Category = "internal"
)

// CommandError is a structured error with category, wrapped cause and, for
// external tool failures, the tool's captured standard error output.
type CommandError struct {
	Category Category
	Message  string
	Cause    error
	Stderr   string
}

// Error implements the error interface. Captured tool stderr is appended on
// its own lines so the user sees the underlying tool's diagnostics verbatim.
func (e *CommandError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Configf creates a configuration error (bad argument combination, missing
// repository link).
func Configf(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryConfig, Message: fmt.Sprintf(format, args...)}
}

// Resolutionf creates a resolution error (undeterminable version, missing
// repository where one is expected).
func Resolutionf(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryResolution, Message: fmt.Sprintf(format, args...)}
}

// Gitf wraps a version-control failure, keeping any captured git stderr.
func Gitf(cause error, stderr, format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryGit, Message: fmt.Sprintf(format, args...), Cause: cause, Stderr: stderr}
}

// Toolf wraps an external-tool failure, keeping the tool's captured stderr.
func Toolf(cause error, stderr, format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTool, Message: fmt.Sprintf(format, args...), Cause: cause, Stderr: stderr}
}

// Internalf creates an internal error wrapping an unexpected cause.
func Internalf(cause error, format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if ce, ok := err.(*CommandError); ok {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not a CommandError.
func GetCategory(err error) Category {
	if ce, ok := err.(*CommandError); ok {
		return ce.Category
	}
	return CategoryInternal
}
