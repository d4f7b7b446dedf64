// Package errors provides the structured error type shared by every
// fixture-loading component: machine-readable codes, optional details,
// a wrapped cause, and the mapping from codes to process exit status.
package errors
