// Package errors provides error handling for actorgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// Usage:
//
//	// Wrap operational failures with context
//	if err := os.WriteFile(path, out, 0644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'actorgen generate' to refresh the file")
//
//	// Classify generator diagnostics
//	if errors.IsSyntaxError(err) {
//	    // malformed directive or body
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Diagnostic classes. Every diagnostic produced by the generator wraps exactly
// one of these, so callers can tell authoring mistakes apart with errors.Is.
var (
	// ErrSyntax marks malformed directive arguments, unknown keys and
	// bodies that are neither a block nor an expression
	ErrSyntax = New("syntax error")

	// ErrValidation marks missing or duplicate directive keys and misplaced carriers
	ErrValidation = New("validation error")

	// ErrDeclaration marks errors in the annotated Go source itself,
	// reported by the Go parser and passed through unchanged
	ErrDeclaration = New("declaration error")

	// ErrStale indicates generated files no longer match their sources
	ErrStale = New("generated files are out of date")
)

// IsSyntaxError checks if an error is or wraps ErrSyntax
func IsSyntaxError(err error) bool {
	return err != nil && Is(err, ErrSyntax)
}

// IsValidationError checks if an error is or wraps ErrValidation
func IsValidationError(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsDeclarationError checks if an error is or wraps ErrDeclaration
func IsDeclarationError(err error) bool {
	return err != nil && Is(err, ErrDeclaration)
}

// IsDiagnostic reports whether err belongs to any diagnostic class,
// as opposed to an operational failure such as I/O.
func IsDiagnostic(err error) bool {
	return err != nil && IsAny(err, ErrSyntax, ErrValidation, ErrDeclaration)
}
