// Package testutil provides testing utilities for taskmux.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockSinkFailed indicates a mock event sink rejected an event (used in tests).
	ErrMockSinkFailed = errors.New("sink failed")

	// ErrMockReconcileFailed indicates a mock reconcile hook failed (used in tests).
	ErrMockReconcileFailed = errors.New("reconcile failed")

	// ErrMockCompleteFailed indicates a mock completion hook failed (used in tests).
	ErrMockCompleteFailed = errors.New("complete failed")

	// ErrMockNotFound indicates a mock resource was not found (used in tests).
	ErrMockNotFound = errors.New("not found")
)
