package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/errors"
)

// GlobalConfigDir returns the path to the global taskmux configuration directory.
// This is typically ~/.taskmux on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.TaskmuxHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
// This is always .taskmux relative to the project root.
func ProjectConfigDir() string {
	return constants.TaskmuxHome
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.taskmux/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "get global config path")
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .taskmux/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}

// LogDir returns the directory where rotating log files are written.
// This is typically ~/.taskmux/logs on Unix systems.
func LogDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir), nil
}
