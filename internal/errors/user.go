package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// This single source of truth ensures UserMessage and Actionable stay in sync.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Orchestrator
	// ===================
	{
		err: ErrDepthExceeded,
		info: ErrorInfo{
			Message: "Task nesting is too deep for this workspace.",
			Action:  "Spawn from a shallower task or raise orchestrator.max_task_nesting_depth.",
		},
	},
	{
		err: ErrConcurrencyExceeded,
		info: ErrorInfo{
			Message: "The workspace already has the maximum number of running tasks.",
			Action:  "Wait for a task to finish or raise orchestrator.max_parallel_agent_tasks.",
		},
	},
	{
		err: ErrInvalidScope,
		info: ErrorInfo{
			Message: "The task is not a descendant of the caller.",
			Action:  "Only tasks you spawned (directly or transitively) can be terminated or awaited.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "The task was not found. It may have already finished.",
			Action:  "",
		},
	},
	{
		err: ErrWorkspaceNotFound,
		info: ErrorInfo{
			Message: "The workspace is not known to the orchestrator.",
			Action:  "Spawn a root task first to register the workspace.",
		},
	},
	{
		err: ErrDescendantsStillActive,
		info: ErrorInfo{
			Message: "The task still has active descendants.",
			Action:  "Await or terminate the descendants before reporting completion.",
		},
	},
	{
		err: ErrInvalidTransition,
		info: ErrorInfo{
			Message: "Cannot transition the task to this state.",
			Action:  "",
		},
	},
	{
		err: ErrOrchestratorClosed,
		info: ErrorInfo{
			Message: "The orchestrator is shutting down and no longer accepts tasks.",
			Action:  "",
		},
	},

	// ===================
	// Harness & Buffer
	// ===================
	{
		err: ErrParse,
		info: ErrorInfo{
			Message: "The plan draft could not be parsed.",
			Action:  "Check that the draft is valid JSON, either raw or inside a fenced code block.",
		},
	},
	{
		err: ErrInvalidConfiguration,
		info: ErrorInfo{
			Message: "A component received an invalid configuration value.",
			Action:  "Check the reported setting; byte caps and limits must be positive.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Run 'taskmux init' to create a default config file.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure the config file exists and is valid YAML.",
		},
	},
	{
		err: ErrValueOutOfRange,
		info: ErrorInfo{
			Message: "Value is outside the allowed range.",
			Action:  "Check the documentation for valid value ranges.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// This function maps sentinel errors to helpful, actionable messages
// that are suitable for display to end users.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
