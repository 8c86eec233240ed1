// Package orchestrator provides the agent task scheduler for taskmux.
//
// This file implements the task state machine, which enforces valid state
// transitions and maintains an audit trail of all state changes.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors,
//     internal/clock, internal/liveoutput, internal/stream, std lib
//   - MUST NOT import: internal/config, internal/cli
package orchestrator

import (
	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/errors"
)

// ValidTransitions defines all allowed state transitions in the task lifecycle.
// Format: from_state -> []to_states
//
// The state machine follows this flow:
//
//	Queued → Running, Terminated
//	Running → Completed, Terminated, Failed
//
// Queued → Terminated covers cancelling a task that never got a running
// slot. Completed, Terminated and Failed are terminal; there is no
// transition out of them.
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.TaskState][]constants.TaskState{
	constants.TaskStateQueued: {
		constants.TaskStateRunning,
		constants.TaskStateTerminated,
	},
	constants.TaskStateRunning: {
		constants.TaskStateCompleted,
		constants.TaskStateTerminated,
		constants.TaskStateFailed,
	},
}

// terminalStates defines states where no further transitions are allowed.
// Terminal states are those NOT present as keys in ValidTransitions.
//
//nolint:gochecknoglobals // Read-only lookup table for terminal state checks
var terminalStates = map[constants.TaskState]bool{
	constants.TaskStateCompleted:  true,
	constants.TaskStateTerminated: true,
	constants.TaskStateFailed:     true,
}

// IsValidTransition checks if a transition from one state to another is allowed.
// Returns false for transitions from terminal states or to the same state.
func IsValidTransition(from, to constants.TaskState) bool {
	if from == to {
		return false
	}

	validTargets, exists := ValidTransitions[from]
	if !exists {
		return false // Terminal state or unknown state
	}
	for _, target := range validTargets {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalState returns true for states where no further transitions are allowed.
// Terminal states: Completed, Terminated, Failed.
func IsTerminalState(state constants.TaskState) bool {
	return terminalStates[state]
}

// IsActiveState returns true for states that block an ancestor's completion
// report: Queued and Running.
func IsActiveState(state constants.TaskState) bool {
	return state == constants.TaskStateQueued || state == constants.TaskStateRunning
}

// checkTransition returns ErrInvalidTransition when moving from one state to
// another is not allowed by the state machine.
func checkTransition(from, to constants.TaskState) error {
	if !IsValidTransition(from, to) {
		return errors.Wrapf(errors.ErrInvalidTransition, "%s -> %s", from, to)
	}
	return nil
}
