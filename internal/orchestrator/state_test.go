package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/errors"
)

func TestIsValidTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from constants.TaskState
		to   constants.TaskState
		want bool
	}{
		{"queued to running", constants.TaskStateQueued, constants.TaskStateRunning, true},
		{"queued to terminated", constants.TaskStateQueued, constants.TaskStateTerminated, true},
		{"running to completed", constants.TaskStateRunning, constants.TaskStateCompleted, true},
		{"running to terminated", constants.TaskStateRunning, constants.TaskStateTerminated, true},
		{"running to failed", constants.TaskStateRunning, constants.TaskStateFailed, true},

		{"queued to completed skips running", constants.TaskStateQueued, constants.TaskStateCompleted, false},
		{"queued to failed skips running", constants.TaskStateQueued, constants.TaskStateFailed, false},
		{"completed is terminal", constants.TaskStateCompleted, constants.TaskStateRunning, false},
		{"terminated is terminal", constants.TaskStateTerminated, constants.TaskStateQueued, false},
		{"failed is terminal", constants.TaskStateFailed, constants.TaskStateRunning, false},
		{"self transition", constants.TaskStateRunning, constants.TaskStateRunning, false},
		{"running back to queued", constants.TaskStateRunning, constants.TaskStateQueued, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalState(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminalState(constants.TaskStateQueued))
	assert.False(t, IsTerminalState(constants.TaskStateRunning))
	assert.True(t, IsTerminalState(constants.TaskStateCompleted))
	assert.True(t, IsTerminalState(constants.TaskStateTerminated))
	assert.True(t, IsTerminalState(constants.TaskStateFailed))
}

func TestIsActiveState(t *testing.T) {
	t.Parallel()

	assert.True(t, IsActiveState(constants.TaskStateQueued))
	assert.True(t, IsActiveState(constants.TaskStateRunning))
	assert.False(t, IsActiveState(constants.TaskStateCompleted))
	assert.False(t, IsActiveState(constants.TaskStateTerminated))
	assert.False(t, IsActiveState(constants.TaskStateFailed))
}

func TestCheckTransition(t *testing.T) {
	t.Parallel()

	assert.NoError(t, checkTransition(constants.TaskStateQueued, constants.TaskStateRunning))

	err := checkTransition(constants.TaskStateCompleted, constants.TaskStateRunning)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}
