// Package faults defines the structured error model shared by the core
// packages.
//
// Error kinds fall into two propagation classes:
//
//   - Programmer misuse (invalid identifiers, malformed configs, observing a
//     non-observable) surfaces immediately and loudly - these are never
//     deferred into a tick.
//   - Data-shape tolerances during sanitization are NOT errors at all; they
//     are represented as a "miss" and resolved by falling back to defaults.
//
// Fault includes structured fields for diagnostics; use the Is* predicates
// with wrapped errors.
package faults

import (
	"errors"
	"fmt"
)

// Code categorizes faults.
type Code string

const (
	// CodeInvalidArgument indicates a malformed identifier, path, or call.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeInvalidConfig indicates a prop-type config that failed
	// construction-time validation.
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// CodeNotObservable indicates a change subscription on something that is
	// neither a pointer nor a prism.
	CodeNotObservable Code = "NOT_OBSERVABLE"

	// CodeSchemaVersionMismatch indicates a snapshot whose definitionVersion
	// does not match the expected schema version. Fatal at ingestion time.
	CodeSchemaVersionMismatch Code = "SCHEMA_VERSION_MISMATCH"
)

// Fault is a structured error with a category code and optional details.
type Fault struct {
	// Code identifies the fault category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// New creates a Fault with the given code and message.
func New(code Code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

// Newf creates a Fault with a formatted message.
func Newf(code Code, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the fault code from an error chain.
// Returns "" if the error is not a Fault.
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT fault.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	return CodeOf(err) == CodeInvalidArgument
}

// IsInvalidConfig reports whether err is an INVALID_CONFIG fault.
func IsInvalidConfig(err error) bool {
	return CodeOf(err) == CodeInvalidConfig
}

// IsNotObservable reports whether err is a NOT_OBSERVABLE fault.
func IsNotObservable(err error) bool {
	return CodeOf(err) == CodeNotObservable
}

// IsSchemaVersionMismatch reports whether err is a SCHEMA_VERSION_MISMATCH fault.
func IsSchemaVersionMismatch(err error) bool {
	return CodeOf(err) == CodeSchemaVersionMismatch
}
