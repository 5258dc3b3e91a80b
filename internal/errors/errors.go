// Package errors provides centralized error handling for git-deploy.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigLoad indicates that the configuration file could not be read.
	ErrConfigLoad = errors.New("failed to load config file")

	// ErrConfigParse indicates that the configuration file is not valid JSON.
	ErrConfigParse = errors.New("failed to parse config file")

	// ErrConfigValidation indicates a schema or semantic violation in the
	// configuration, such as a branch name that is also a semantic version.
	ErrConfigValidation = errors.New("invalid configuration")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrAuthentication indicates that the remote could not be authenticated,
	// typically after the credential attempt bound was exceeded.
	ErrAuthentication = errors.New("authentication failed")

	// ErrVersionControl indicates that a version control operation
	// (clone, stage, commit, push) failed.
	ErrVersionControl = errors.New("version control operation failed")

	// ErrRemoteUnreachable indicates that the target repository could not be
	// reached over the network. It is reported together with ErrVersionControl.
	ErrRemoteUnreachable = errors.New("remote unreachable")

	// ErrPushRejected indicates that the remote refused a non-fast-forward
	// push, usually because another publisher pushed first. It is reported
	// together with ErrVersionControl.
	ErrPushRejected = errors.New("push rejected")

	// ErrFilesystem indicates that a filesystem operation (list, read, write,
	// symlink, temp directory) failed.
	ErrFilesystem = errors.New("filesystem operation failed")

	// ErrReleaseNotRequired indicates that the CI context does not call for a release.
	// It is used by the check command to signal exit code 1 and is not a failure.
	ErrReleaseNotRequired = errors.New("release not required")

	// ErrTimeout indicates that a caller-level deadline expired before the
	// operation completed.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// ExitCodeError wraps an error with the process exit code it should produce.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps an error to indicate the given exit code.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
