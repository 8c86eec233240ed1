package config

import (
	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - orchestrator.max_parallel_agent_tasks must be between 1 and 10
//   - orchestrator.max_task_nesting_depth must be between 1 and 5
//   - orchestrator.retention must not be negative
//   - output.max_bytes must be positive
//   - logging.level must be a known zerolog level name
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateOrchestratorConfig(&cfg.Orchestrator); err != nil {
		return err
	}
	if err := validateOutputConfig(&cfg.Output); err != nil {
		return err
	}
	return validateLoggingConfig(&cfg.Logging)
}

// validateOrchestratorConfig checks the orchestrator limit values.
func validateOrchestratorConfig(cfg *OrchestratorConfig) error {
	if cfg.MaxParallelTasks < constants.MinParallelAgentTasks || cfg.MaxParallelTasks > constants.MaxParallelAgentTasks {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"orchestrator.max_parallel_agent_tasks must be between %d and %d, got %d",
			constants.MinParallelAgentTasks, constants.MaxParallelAgentTasks, cfg.MaxParallelTasks)
	}

	if cfg.MaxNestingDepth < constants.MinTaskNestingDepth || cfg.MaxNestingDepth > constants.MaxTaskNestingDepth {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"orchestrator.max_task_nesting_depth must be between %d and %d, got %d",
			constants.MinTaskNestingDepth, constants.MaxTaskNestingDepth, cfg.MaxNestingDepth)
	}

	if cfg.Retention < 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"orchestrator.retention must not be negative, got %s", cfg.Retention)
	}

	return nil
}

// validateOutputConfig checks the live-output buffer settings.
func validateOutputConfig(cfg *OutputConfig) error {
	if cfg.MaxBytes <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"output.max_bytes must be positive, got %d", cfg.MaxBytes)
	}
	return nil
}

// validLogLevels are the accepted logging.level values.
var validLogLevels = map[string]bool{ //nolint:gochecknoglobals // Read-only lookup table
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateLoggingConfig checks the logging settings.
func validateLoggingConfig(cfg *LoggingConfig) error {
	if cfg.Level == "" {
		return errors.Wrap(errors.ErrEmptyValue, "logging.level must not be empty")
	}
	if !validLogLevels[cfg.Level] {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"logging.level must be one of trace, debug, info, warn, error; got %q", cfg.Level)
	}
	return nil
}
