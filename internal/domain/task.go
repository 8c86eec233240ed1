// Package domain provides shared domain types for the taskmux orchestration core.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case per architecture requirements.
package domain

import (
	"time"

	"github.com/mrz1836/taskmux/internal/constants"
)

// Task represents one node in a workspace's agent task tree.
// Root tasks have no parent and depth 0; every child's depth is its
// parent's depth plus one. The orchestrator is the only mutator of a
// task's state.
//
// Example JSON representation:
//
//	{
//	    "id": "8c3f2c5e-5f2a-4f7e-9f2d-6f0a1b2c3d4e",
//	    "parent_id": "d1a2b3c4-...",
//	    "workspace_id": "auth-workspace",
//	    "depth": 1,
//	    "state": "running",
//	    "descendant_ids": ["..."],
//	    "created_at": "2026-08-26T10:00:00Z",
//	    "updated_at": "2026-08-26T10:05:00Z"
//	}
type Task struct {
	// ID is the unique identifier for the task within its workspace.
	ID string `json:"id"`

	// ParentID is the identifier of the owning task, empty for a root task.
	ParentID string `json:"parent_id,omitempty"`

	// WorkspaceID links this task to its workspace, the isolation boundary
	// for concurrency limits and descendant scoping.
	WorkspaceID string `json:"workspace_id"`

	// Depth is the nesting depth of the task. Root tasks have depth 0.
	Depth int `json:"depth"`

	// State is the current state in the task lifecycle.
	// Uses constants.TaskState values (queued, running, completed, ...).
	State constants.TaskState `json:"state"`

	// Prompt is a human-readable summary of what the task should do.
	Prompt string `json:"prompt,omitempty"`

	// DescendantIDs lists the transitively owned child task identifiers.
	// Maintained incrementally by the orchestrator on spawn and terminate,
	// never recomputed by tree traversal.
	DescendantIDs []string `json:"descendant_ids,omitempty"`

	// Transitions is the audit trail of state changes for this task.
	Transitions []Transition `json:"transitions,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`

	// FinishedAt is when the task reached a terminal state (nil while live).
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Transition records one state change in a task's audit trail.
type Transition struct {
	// From is the state the task left.
	From constants.TaskState `json:"from"`

	// To is the state the task entered.
	To constants.TaskState `json:"to"`

	// Reason is a short human-readable explanation for the change.
	Reason string `json:"reason,omitempty"`

	// At is when the transition happened.
	At time.Time `json:"at"`
}

// IsTerminal reports whether the task has reached a terminal state.
func (t *Task) IsTerminal() bool {
	switch t.State {
	case constants.TaskStateCompleted, constants.TaskStateTerminated, constants.TaskStateFailed:
		return true
	default:
		return false
	}
}

// TerminateStatus classifies the per-id outcome of a terminate request.
type TerminateStatus string

// Terminate outcome statuses.
const (
	// TerminateStatusTerminated indicates the task and its live descendants
	// were cancelled.
	TerminateStatusTerminated TerminateStatus = "terminated"

	// TerminateStatusNotFound indicates the task has left the live tree or
	// never existed. Repeating a terminate yields this, not an error.
	TerminateStatusNotFound TerminateStatus = "not_found"

	// TerminateStatusInvalidScope indicates the task exists but is not a
	// descendant of the caller.
	TerminateStatusInvalidScope TerminateStatus = "invalid_scope"

	// TerminateStatusError indicates an internal fault during the cascade.
	// Already-terminated members of the subtree stay terminated.
	TerminateStatusError TerminateStatus = "error"
)

// TerminateOutcome reports the result of terminating one requested task id.
type TerminateOutcome struct {
	// TaskID is the id the caller asked to terminate.
	TaskID string `json:"task_id"`

	// Status classifies what happened for this id.
	Status TerminateStatus `json:"status"`

	// TerminatedIDs lists every id actually terminated by the cascade,
	// including descendants of the requested id. On a faulted cascade it
	// holds the partial progress, which is never rolled back.
	TerminatedIDs []string `json:"terminated_ids,omitempty"`

	// Error carries the fault message when Status is TerminateStatusError.
	Error string `json:"error,omitempty"`
}
