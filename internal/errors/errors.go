package errors

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidInputError indicates a caller-supplied argument that cannot be used.
type InvalidInputError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e InvalidInputError) Error() string {
	msg := "Invalid input"
	if e.Field != "" {
		msg += fmt.Sprintf(" for '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// IOError indicates a filesystem operation failure that the caller
// may want to act on (fix permissions, create the directory, ...).
type IOError struct {
	Path       string
	Op         string
	Suggestion string
	Err        error
}

func (e IOError) Error() string {
	msg := fmt.Sprintf("I/O error during %s", e.Op)
	if e.Path != "" {
		msg += fmt.Sprintf(" on '%s'", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e IOError) Unwrap() error {
	return e.Err
}

// ValidationError is a single semantic violation inside otherwise
// well-formed data.
type ValidationError struct {
	Subject string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	var parts []string
	if e.Subject != "" {
		parts = append(parts, e.Subject)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	prefix := strings.Join(parts, ".")
	if prefix != "" {
		return prefix + ": " + e.Message
	}
	return e.Message
}

// ValidationErrors aggregates every violation found in a validation pass.
// Validation never stops at the first problem.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("validation failed with %d error(s):", len(e.Errors)))
	for _, ve := range e.Errors {
		lines = append(lines, "  - "+ve.Error())
	}
	return strings.Join(lines, "\n")
}

// Add appends a violation to the collection.
func (e *ValidationErrors) Add(subject, field, message string) {
	e.Errors = append(e.Errors, ValidationError{Subject: subject, Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrOrNil returns the collection as an error, or nil when empty.
func (e *ValidationErrors) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// SerializationError indicates data that could not be encoded or decoded.
type SerializationError struct {
	Format     string
	Path       string
	Suggestion string
	Err        error
}

func (e SerializationError) Error() string {
	msg := "Serialization error"
	if e.Format != "" {
		msg += fmt.Sprintf(" (%s)", e.Format)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" in '%s'", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e SerializationError) Unwrap() error {
	return e.Err
}

// ConflictError indicates an operation that would violate a uniqueness
// rule, such as adding an instance whose id already exists.
type ConflictError struct {
	Resource   string
	ID         string
	Message    string
	Suggestion string
}

func (e ConflictError) Error() string {
	msg := fmt.Sprintf("Conflict on %s '%s'", e.Resource, e.ID)
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// NotFoundError indicates a lookup for something that does not exist.
type NotFoundError struct {
	Resource   string
	ID         string
	Suggestion string
}

func (e NotFoundError) Error() string {
	msg := fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	return msg
}

// BoundaryError wraps any failure that crosses the public API boundary,
// carrying the message a caller outside the module should see.
type BoundaryError struct {
	Op  string
	Err error
}

func (e BoundaryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e BoundaryError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target InvalidInputError
	return errors.As(err, &target)
}

// IsIO reports whether err is (or wraps) an IOError.
func IsIO(err error) bool {
	var target IOError
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) a ValidationErrors collection.
func IsValidation(err error) bool {
	var target *ValidationErrors
	return errors.As(err, &target)
}

// IsSerialization reports whether err is (or wraps) a SerializationError.
func IsSerialization(err error) bool {
	var target SerializationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// SimplifyError rewrites common low-level failures into errors with
// actionable suggestions. Errors already carrying context pass through.
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	switch err.(type) {
	case InvalidInputError, IOError, SerializationError, ConflictError, NotFoundError, BoundaryError, *ValidationErrors:
		return err
	}

	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return SerializationError{
			Format:     "yaml",
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return IOError{
			Op:         "access",
			Suggestion: "Check file permissions or run as the owning user",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return IOError{
			Op:         "open",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}
