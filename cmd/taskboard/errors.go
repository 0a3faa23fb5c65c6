package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/taskboard/transfer"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add", "import", "toggle")
	Cause       string   // The underlying cause (e.g., "task not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for rejected input
func NewValidationError(operation string, underlying error, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       underlying.Error(),
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// NewNotFoundError creates an error for an id that matches no task
func NewNotFoundError(operation, id string, underlying error) *CLIError {
	return &CLIError{
		Operation: operation,
		Cause:     fmt.Sprintf("task with ID %q not found", id),
		Suggestions: []string{
			CommonSuggestions.CheckID,
		},
		Underlying: underlying,
	}
}

// NewAmbiguousIDError creates an error for a prefix shared by several tasks
func NewAmbiguousIDError(operation, id string, underlying error) *CLIError {
	return &CLIError{
		Operation: operation,
		Cause:     fmt.Sprintf("ID prefix %q matches more than one task", id),
		Suggestions: []string{
			"Type more characters of the ID",
			CommonSuggestions.CheckID,
		},
		Underlying: underlying,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewImportError creates an error for an unreadable import file
func NewImportError(path string, underlying error) *CLIError {
	return &CLIError{
		Operation: "import tasks",
		Cause:     fmt.Sprintf("%s is not a JSON array of tasks", path),
		Details:   underlying.Error(),
		Suggestions: []string{
			"Import files must contain a top-level JSON array, like the output of 'taskboard export'",
			"Your existing tasks were not changed",
		},
		Underlying: underlying,
	}
}

// NewStoreError creates an error for storage faults
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		// Provide more user-friendly descriptions for common errors
		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access the task store"
		case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "acquire lock"):
			cause = "task store is currently locked by another process"
		case strings.Contains(errStr, "no space left"):
			cause = "not enough disk space to save tasks"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	// If it's already a CLIError, just update the operation
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	if errors.Is(err, transfer.ErrImportFormat) {
		return NewImportError("input", err)
	}
	if errors.Is(err, store.ErrTaskNotFound) {
		return &CLIError{Operation: operation, Cause: "task not found", Underlying: err,
			Suggestions: []string{CommonSuggestions.CheckID}}
	}

	return NewStoreError(operation, err, suggestions...)
}

// Common error messages and suggestions
var (
	CommonSuggestions = struct {
		CheckID     string
		CheckStore  string
		CheckConfig string
		CheckFlags  string
		RunHelp     string
		CheckPerms  string
	}{
		CheckID:     "Verify the task ID exists (try 'taskboard list' first)",
		CheckStore:  "Verify --store points to a writable location",
		CheckConfig: "Check your configuration file or TASKBOARD_* environment variables",
		CheckFlags:  "Check command line flags and their values",
		RunHelp:     "Run command with --help for usage information",
		CheckPerms:  "Check file permissions and directory access",
	}
)
