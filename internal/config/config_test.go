package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/errors"
)

// writeConfigFile writes yaml content to dir/config.yaml and returns the path.
func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, constants.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, constants.DefaultParallelAgentTasks, cfg.Orchestrator.MaxParallelTasks)
	assert.Equal(t, constants.DefaultTaskNestingDepth, cfg.Orchestrator.MaxNestingDepth)
	assert.Equal(t, constants.DefaultRetention, cfg.Orchestrator.Retention)
	assert.Equal(t, constants.DefaultOutputMaxBytes, cfg.Output.MaxBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.File)

	require.NoError(t, Validate(cfg))
}

func TestLoadFromPathsUsesDefaultsWhenNoFiles(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPathsGlobalOnly(t *testing.T) {
	t.Parallel()

	globalPath := writeConfigFile(t, t.TempDir(), `
orchestrator:
  max_parallel_agent_tasks: 5
  retention: 90s
`)

	cfg, err := LoadFromPaths(context.Background(), "", globalPath)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Orchestrator.MaxParallelTasks)
	assert.Equal(t, 90*time.Second, cfg.Orchestrator.Retention)
	// Unset keys keep defaults.
	assert.Equal(t, constants.DefaultTaskNestingDepth, cfg.Orchestrator.MaxNestingDepth)
}

func TestLoadFromPathsProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	globalPath := writeConfigFile(t, t.TempDir(), `
orchestrator:
  max_parallel_agent_tasks: 5
output:
  max_bytes: 1024
`)
	projectPath := writeConfigFile(t, t.TempDir(), `
orchestrator:
  max_parallel_agent_tasks: 8
`)

	cfg, err := LoadFromPaths(context.Background(), projectPath, globalPath)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Orchestrator.MaxParallelTasks)
	// Keys only in the global file still apply.
	assert.Equal(t, 1024, cfg.Output.MaxBytes)
}

func TestLoadFromPathsRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, t.TempDir(), `
orchestrator:
  max_parallel_agent_tasks: 99
`)

	_, err := LoadFromPaths(context.Background(), path, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKMUX_ORCHESTRATOR_MAX_PARALLEL_AGENT_TASKS", "7")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Orchestrator.MaxParallelTasks)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		Orchestrator: OrchestratorConfig{MaxParallelTasks: 9},
		Logging:      LoggingConfig{Level: "debug"},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Orchestrator.MaxParallelTasks)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Zero values in overrides leave loaded values alone.
	assert.Equal(t, constants.DefaultTaskNestingDepth, cfg.Orchestrator.MaxNestingDepth)
}

func TestLoadWithOverridesRejectsInvalidOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadWithOverrides(context.Background(), &Config{
		Orchestrator: OrchestratorConfig{MaxNestingDepth: 12},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"nil config", nil, errors.ErrConfigNil},
		{"parallel too low", func(c *Config) { c.Orchestrator.MaxParallelTasks = 0 }, errors.ErrValueOutOfRange},
		{"parallel too high", func(c *Config) { c.Orchestrator.MaxParallelTasks = 11 }, errors.ErrValueOutOfRange},
		{"depth too low", func(c *Config) { c.Orchestrator.MaxNestingDepth = 0 }, errors.ErrValueOutOfRange},
		{"depth too high", func(c *Config) { c.Orchestrator.MaxNestingDepth = 6 }, errors.ErrValueOutOfRange},
		{"negative retention", func(c *Config) { c.Orchestrator.Retention = -time.Second }, errors.ErrValueOutOfRange},
		{"zero output budget", func(c *Config) { c.Output.MaxBytes = 0 }, errors.ErrValueOutOfRange},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }, errors.ErrEmptyValue},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, errors.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.mutate == nil {
				assert.ErrorIs(t, Validate(nil), tt.wantErr)
				return
			}

			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.wantErr)
		})
	}
}

func TestValidateAcceptsBoundaryValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Orchestrator.MaxParallelTasks = constants.MaxParallelAgentTasks
	cfg.Orchestrator.MaxNestingDepth = constants.MaxTaskNestingDepth
	cfg.Orchestrator.Retention = 0
	require.NoError(t, Validate(cfg))

	cfg.Orchestrator.MaxParallelTasks = constants.MinParallelAgentTasks
	cfg.Orchestrator.MaxNestingDepth = constants.MinTaskNestingDepth
	require.NoError(t, Validate(cfg))
}

func TestProjectConfigPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.TaskmuxHome, ProjectConfigDir())
	assert.Equal(t, filepath.Join(constants.TaskmuxHome, constants.ConfigFileName), ProjectConfigPath())
}
