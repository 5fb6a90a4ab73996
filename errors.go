package intertext

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInsufficientData is matched by every *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
)

// ConfigurationError reports an invalid search parameter. It is returned
// before any matching work starts.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
	cause  error
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// Is reports ErrConfiguration as a match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InsufficientDataError reports an input text without units of the
// requested type.
type InsufficientDataError struct {
	TextID   string
	UnitType string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("text %q has no %s units", e.TextID, e.UnitType)
}

// Is reports ErrInsufficientData as a match.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

func configError(field string, value any, cause error) *ConfigurationError {
	e := &ConfigurationError{Field: field, Value: value, cause: cause}
	if cause != nil {
		e.Reason = cause.Error()
	}
	return e
}
