package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/backpackerjohn/MM16/internal/logger"
)

// Sentinel errors classifying every failure the engine can surface.
var (
	// ErrNotFound marks operations on a missing anchor or reminder id.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed input rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks an anchor placement rejected because of overlap.
	ErrConflict = errors.New("placement conflict")
	// ErrCollaborator marks a failure in an external collaborator; always
	// recoverable locally.
	ErrCollaborator = errors.New("collaborator failed")
)

// ConflictError reports which anchor blocked a placement so the caller can
// inform the user. It unwraps to ErrConflict.
type ConflictError struct {
	BlockingID    string
	BlockingTitle string
	Day           string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with %q on %s", e.BlockingTitle, e.Day)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// Validationf wraps a formatted message with ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// NotFoundf wraps a formatted message with ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
