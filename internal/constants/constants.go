// Package constants provides centralized constant values used throughout taskmux.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by taskmux for configuration and logs.
const (
	// TaskmuxHome is the hidden directory name where taskmux stores its data.
	// This directory is created in the user's home directory.
	TaskmuxHome = ".taskmux"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LogFileName is the name of the rotating JSON log file.
	LogFileName = "taskmux.log"
)

// Limits on the orchestrator's concurrency and nesting settings.
// Workspace configuration values outside these ranges are rejected.
const (
	// MinParallelAgentTasks is the lowest allowed running-task cap per workspace.
	MinParallelAgentTasks = 1

	// MaxParallelAgentTasks is the highest allowed running-task cap per workspace.
	MaxParallelAgentTasks = 10

	// MinTaskNestingDepth is the lowest allowed nesting-depth cap.
	MinTaskNestingDepth = 1

	// MaxTaskNestingDepth is the highest allowed nesting-depth cap.
	MaxTaskNestingDepth = 5
)

// Default workspace settings applied when no configuration overrides them.
const (
	// DefaultParallelAgentTasks is the default cap on concurrently running
	// tasks within one workspace.
	DefaultParallelAgentTasks = 3

	// DefaultTaskNestingDepth is the default cap on task nesting depth.
	// A root task has depth 0; its children have depth 1.
	DefaultTaskNestingDepth = 2

	// DefaultOutputMaxBytes is the default byte budget for one task's
	// live-output buffer.
	DefaultOutputMaxBytes = 64 * 1024

	// DefaultRetention is how long terminal tasks stay queryable after
	// leaving the live tree.
	DefaultRetention = 5 * time.Minute
)

// Log rotation defaults for the lumberjack file sink.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated log file in days.
	LogMaxAgeDays = 28
)

// EnvPrefix is the prefix for environment variable configuration overrides
// (for example TASKMUX_ORCHESTRATOR_MAX_PARALLEL_TASKS).
const EnvPrefix = "TASKMUX"
