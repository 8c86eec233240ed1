package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskmux/internal/config"
	"github.com/mrz1836/taskmux/internal/ctxutil"
	"github.com/mrz1836/taskmux/internal/errors"
	"github.com/mrz1836/taskmux/internal/flock"
)

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	var (
		project bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create a taskmux configuration file with default settings.

Writes the global configuration to ~/.taskmux/config.yaml by default.
With --project, writes .taskmux/config.yaml in the current directory
instead; project settings override global ones.

Examples:
  taskmux init
  taskmux init --project
  taskmux init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), project, force, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "write project config instead of global")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(ctx context.Context, project, force bool, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	logger := GetLogger()

	path, err := configTargetPath(project)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(errors.ErrInvalidArgument,
			"config file %s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	// Serialize concurrent init runs against the same config path.
	lockFile, err := os.OpenFile(path+".lock", os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return errors.Wrap(err, "open config lock file")
	}
	defer func() {
		_ = lockFile.Close()
		_ = os.Remove(lockFile.Name())
	}()
	if err := flock.Exclusive(lockFile.Fd()); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument,
			"config file %s is being written by another process", path)
	}
	defer func() { _ = flock.Unlock(lockFile.Fd()) }()

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "marshal default config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "write config file %s", path)
	}

	logger.Info().Str("path", path).Msg("config file created")

	st := newStyles()
	fmt.Fprintln(w, st.Success.Render("created "+path))
	return nil
}

// configTargetPath resolves where init should write.
func configTargetPath(project bool) (string, error) {
	if project {
		return config.ProjectConfigPath(), nil
	}
	return config.GlobalConfigPath()
}
