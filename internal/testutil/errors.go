// Package testutil provides testing utilities for git-deploy.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating failures in tests.
var (
	// ErrMockDiskFull simulates a filesystem write failure.
	ErrMockDiskFull = errors.New("disk full")

	// ErrMockNetwork simulates an unreachable remote.
	ErrMockNetwork = errors.New("network error")

	// ErrMockRejected simulates a push refused by the remote.
	ErrMockRejected = errors.New("remote rejected")
)
