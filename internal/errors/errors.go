package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/focusfortress/fortress/internal/logger"
)

// Conflict codes reported by backing stores.
const (
	CodeAlreadyMarked    = "already_marked"
	CodeHasSubcategories = "has_subcategories"
	CodeHasHabits        = "has_habits"
)

// ValidationError reports blank or out-of-range input. Never retried
// automatically; surfaced to the user for correction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing category/subcategory/habit/counter.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ConflictError reports an operation blocked by existing state: deletion
// with live children, or a mark-done already recorded for today. Code is
// one of the Code* constants when the source can provide one.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidStateError reports an operation rejected by the habit lifecycle,
// e.g. editing a completed habit. Raised before any backing-store call.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// AlreadyDoneError is the guard's local rejection of a second mark-done
// for the same habit on the same calendar day.
type AlreadyDoneError struct {
	HabitID string
	Day     string
}

func (e *AlreadyDoneError) Error() string {
	return fmt.Sprintf("habit %s already marked done on %s", e.HabitID, e.Day)
}

// IsAlreadyMarked reports whether err is the backing store's "already
// marked done today" conflict. Local stores set a structured code; remote
// stores that only return text are mapped by the REST client before the
// error reaches here.
func IsAlreadyMarked(err error) bool {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Code == CodeAlreadyMarked
	}
	return false
}

// IsAlreadyDone reports whether err is the guard's local same-day
// rejection.
func IsAlreadyDone(err error) bool {
	var already *AlreadyDoneError
	return errors.As(err, &already)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
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
