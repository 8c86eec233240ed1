// Package errors provides centralized error handling for taskmux.
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
	// ErrDepthExceeded indicates that spawning a task would exceed the
	// workspace's maximum nesting depth. Admission-time and recoverable:
	// the caller may retry at a shallower point in the tree.
	ErrDepthExceeded = errors.New("task nesting depth exceeded")

	// ErrConcurrencyExceeded indicates that a task could not be admitted as
	// running because the workspace's parallel-task cap is saturated.
	// Returned only when queueing is disabled for the spawn.
	ErrConcurrencyExceeded = errors.New("parallel task limit exceeded")

	// ErrInvalidScope indicates that a task id named in a terminate or await
	// call is not a descendant of the caller. Caller error, do not retry.
	ErrInvalidScope = errors.New("task not in caller scope")

	// ErrTaskNotFound indicates the requested task has left the live tree
	// or never existed. Success-adjacent for terminate callers.
	ErrTaskNotFound = errors.New("task not found")

	// ErrWorkspaceNotFound indicates the requested workspace is unknown
	// to the orchestrator.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrDescendantsStillActive indicates that a task attempted to report
	// completion while at least one descendant was still queued or running.
	ErrDescendantsStillActive = errors.New("descendants still active")

	// ErrInvalidTransition indicates an attempt to make an invalid task
	// state transition.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidConfiguration indicates caller misuse of a component that
	// requires valid settings, such as a non-positive buffer byte cap.
	// Programming error, fail fast.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrParse indicates malformed plan-draft input during markdown or
	// JSON extraction. Recoverable via the compiler's fallback path.
	ErrParse = errors.New("draft parse error")

	// ErrOrchestratorClosed indicates the orchestrator has been shut down
	// and no longer accepts spawn requests.
	ErrOrchestratorClosed = errors.New("orchestrator closed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrValueOutOfRange indicates that a configuration value is outside
	// the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
)
