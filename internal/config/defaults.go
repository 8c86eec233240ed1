package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/taskmux/internal/constants"
)

// DefaultConfig returns a Config populated with built-in defaults.
// These values are used when no config file, environment variable, or
// flag overrides them.
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			MaxParallelTasks: constants.DefaultParallelAgentTasks,
			MaxNestingDepth:  constants.DefaultTaskNestingDepth,
			Retention:        constants.DefaultRetention,
		},
		Output: OutputConfig{
			MaxBytes: constants.DefaultOutputMaxBytes,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  true,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	v.SetDefault("orchestrator.max_parallel_agent_tasks", constants.DefaultParallelAgentTasks)
	v.SetDefault("orchestrator.max_task_nesting_depth", constants.DefaultTaskNestingDepth)
	v.SetDefault("orchestrator.retention", constants.DefaultRetention)

	v.SetDefault("output.max_bytes", constants.DefaultOutputMaxBytes)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
}
