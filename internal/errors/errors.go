// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeUnknownAxisValue indicates a scenario code references a value
	// not defined for a known axis
	TypeUnknownAxisValue Type = "UNKNOWN_AXIS_VALUE"

	// TypeDuplicateAxis indicates the same axis letter appears twice in
	// one scenario code
	TypeDuplicateAxis Type = "DUPLICATE_AXIS"

	// TypeMissingOptionMapping indicates an axis defines an option with
	// no corresponding config-path mapping
	TypeMissingOptionMapping Type = "MISSING_OPTION_MAPPING"

	// TypeInvalidConfigPath indicates an overlay could not descend into
	// a non-mapping leaf
	TypeInvalidConfigPath Type = "INVALID_CONFIG_PATH"

	// TypeMissingPredecessorArtifact indicates a horizon's build step
	// references a predecessor artifact that does not exist and cannot
	// be built
	TypeMissingPredecessorArtifact Type = "MISSING_PREDECESSOR_ARTIFACT"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a document parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// UnknownAxisValue reports an undefined value for a registered axis letter.
func UnknownAxisValue(axis, value string) *Error {
	return Newf(TypeUnknownAxisValue, "axis %q has no value %q", axis, value).
		WithContext("axis", axis).
		WithContext("value", value)
}

// DuplicateAxis reports an axis letter appearing twice in one scenario code.
func DuplicateAxis(axis, code string) *Error {
	return Newf(TypeDuplicateAxis, "axis %q appears more than once in %q", axis, code).
		WithContext("axis", axis).
		WithContext("code", code)
}

// MissingOptionMapping reports an option with no config-path mapping.
func MissingOptionMapping(axis, value, option string) *Error {
	return Newf(TypeMissingOptionMapping, "option %q (axis %q, value %q) has no config-path mapping", option, axis, value).
		WithContext("axis", axis).
		WithContext("value", value).
		WithContext("option", option)
}

// InvalidConfigPath reports an overlay descent blocked by a scalar leaf.
func InvalidConfigPath(path string, message string) *Error {
	return Newf(TypeInvalidConfigPath, "cannot write at %s: %s", path, message).
		WithContext("path", path)
}

// MissingPredecessorArtifact reports an unresolvable inter-horizon dependency.
func MissingPredecessorArtifact(artifact string) *Error {
	return Newf(TypeMissingPredecessorArtifact, "predecessor artifact %q does not exist and no step produces it", artifact).
		WithContext("artifact", artifact)
}
