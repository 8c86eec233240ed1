package constants

// TaskState represents the state of a task in the taskmux state machine.
// State values use snake_case for JSON serialization compatibility.
type TaskState string

// Task state constants define the valid states a task can be in.
// These follow the lifecycle enforced by the orchestrator:
//
//	Queued → Running, Terminated
//	Running → Completed, Terminated, Failed
//
// Completed, Terminated and Failed are terminal.
const (
	// TaskStateQueued indicates a task was admitted to the tree but is
	// waiting for a running slot to free up.
	TaskStateQueued TaskState = "queued"

	// TaskStateRunning indicates the task is actively executing.
	TaskStateRunning TaskState = "running"

	// TaskStateCompleted indicates the task finished successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateTerminated indicates the task was cancelled, either directly
	// or as part of an ancestor's termination cascade.
	TaskStateTerminated TaskState = "terminated"

	// TaskStateFailed indicates the task body reported an error.
	TaskStateFailed TaskState = "failed"
)

// String returns the string representation of the TaskState.
// This implements fmt.Stringer for convenient logging and debugging.
func (s TaskState) String() string {
	return string(s)
}

// ChecklistStatus represents the progress state of one harness checklist item.
type ChecklistStatus string

// Checklist status constants define the states a checklist item can be in.
const (
	// ChecklistStatusTodo indicates the item has not been started.
	ChecklistStatusTodo ChecklistStatus = "todo"

	// ChecklistStatusInProgress indicates the item is being worked on.
	ChecklistStatusInProgress ChecklistStatus = "in_progress"

	// ChecklistStatusDone indicates the item is finished.
	ChecklistStatusDone ChecklistStatus = "done"
)

// String returns the string representation of the ChecklistStatus.
func (s ChecklistStatus) String() string {
	return string(s)
}
