// Package config provides configuration management for taskmux with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TASKMUX_* prefix)
//  3. Project config (.taskmux/config.yaml)
//  4. Global config (~/.taskmux/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for taskmux.
// It contains all configuration sections for the application.
type Config struct {
	// Orchestrator contains the per-workspace concurrency and nesting limits.
	Orchestrator OrchestratorConfig `yaml:"orchestrator" json:"orchestrator" mapstructure:"orchestrator"`

	// Output contains settings for the bounded live-output buffer.
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`

	// Logging contains settings for log verbosity and the file sink.
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// OrchestratorConfig contains the workspace-level limits read by the
// orchestrator at spawn and admission time.
type OrchestratorConfig struct {
	// MaxParallelTasks caps how many tasks may be running concurrently
	// within one workspace. Valid range: 1-10. Default: 3.
	MaxParallelTasks int `yaml:"max_parallel_agent_tasks" json:"max_parallel_agent_tasks" mapstructure:"max_parallel_agent_tasks"`

	// MaxNestingDepth caps how deep tasks may nest. A root task has depth 0,
	// so a cap of 1 allows one level of subtasks. Valid range: 1-5. Default: 2.
	MaxNestingDepth int `yaml:"max_task_nesting_depth" json:"max_task_nesting_depth" mapstructure:"max_task_nesting_depth"`

	// Retention is how long terminal tasks stay queryable after leaving the
	// live tree, for idempotent re-queries. Default: 5m.
	Retention time.Duration `yaml:"retention" json:"retention" mapstructure:"retention"`
}

// OutputConfig contains settings for per-task live-output capture.
type OutputConfig struct {
	// MaxBytes is the byte budget for one task's live-output buffer.
	// Oldest segments are evicted once the budget is exceeded.
	// Must be positive. Default: 65536.
	MaxBytes int `yaml:"max_bytes" json:"max_bytes" mapstructure:"max_bytes"`
}

// LoggingConfig contains settings for the zerolog setup.
type LoggingConfig struct {
	// Level selects the minimum log level ("debug", "info", "warn", "error").
	// Default: "info".
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// File enables the rotating JSON log file under ~/.taskmux/logs.
	// Default: true.
	File bool `yaml:"file" json:"file" mapstructure:"file"`
}
