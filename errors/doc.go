// Package errors provides structured error types for the wasm-bridge module.
//
// Errors are categorized by Phase (where in the load or build sequence the
// error occurred) and Kind (the category from the bridge's taxonomy: path
// resolution, I/O, validation, linking, tool invocation).
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseLink, errors.KindLink).
//		Symbol("env", "host-log").
//		Detail("import not present in table").
//		Build()
//
// Or the convenience constructors for common patterns:
//
//	err := errors.Validation("wrong magic header", cause)
//	err := errors.Tool("optimize", 2, cause)
//
// All errors implement the standard error interface and support
// errors.Is/As. Every load-path error is fatal for that load attempt:
// nothing in this taxonomy is retryable.
package errors
