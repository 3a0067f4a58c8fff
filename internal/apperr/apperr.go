package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthenticationRequired means no valid principal was presented.
	// Auto-save treats this as fatal for the session (breaker trips).
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrIsolationViolation means a principal attempted to read or write
	// a row it does not own. Always rejected, never retried, and logged
	// as a security event rather than a validation failure.
	ErrIsolationViolation = errors.New("row ownership violation")

	// ErrTransientIO marks a network/store hiccup. Read paths may retry
	// or degrade to last-known-good; write paths surface it to the caller.
	ErrTransientIO = errors.New("transient io failure")
)

// Transient wraps err so that errors.Is(err, ErrTransientIO) holds.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransientIO, err)
}

// FieldError describes a single failing field in a validation error.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every failing field at once, not one at a time.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// UnitResult reports the outcome of one unit of a batch operation.
type UnitResult struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// PartialBatchError is returned when some units of a batch failed while
// at least one succeeded. The operation as a whole counts as a success;
// per-unit failures are reported separately.
type PartialBatchError struct {
	Failed []UnitResult
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d unit(s) failed in batch", len(e.Failed))
}
