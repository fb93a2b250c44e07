// Package errors provides structured error types for the dyntype library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: path inside the descriptor tree, host and
// device type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStore, errors.KindUnrepresentable).
//		Path("shape", "variant1").
//		DeviceType("double").
//		Detail("64-bit floats need a double precision target").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unrepresentable(errors.PhaseEmit, path, "Variant42")
//	err := errors.OutOfBounds(errors.PhaseLoad, path, 24, 16)
//
// Two tiers exist. Recoverable conditions (a type that cannot be laid out, a
// buffer that is too short, a malformed document) are returned as *Error values.
// Broken invariants between producer and consumer (wrong branch access, corrupt
// variant tag, mismatched payload type) are reported with Violation, which
// panics with an *Error and is never meant to be recovered.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
