package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
)

// newTestCompileCmd builds a compile command wired to a root with global
// flags, so cmd.Flag("output") resolves in tests.
func newTestCompileCmd(t *testing.T) *cobra.Command {
	t.Helper()

	flags := &GlobalFlags{}
	root := newRootCmd(flags, BuildInfo{})
	for _, sub := range root.Commands() {
		if strings.HasPrefix(sub.Use, "compile") {
			return sub
		}
	}
	t.Fatal("compile command not registered")
	return nil
}

// writeDraftFile writes content to a temp file with the given name.
func writeDraftFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunCompileJSONDraftFile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	path := writeDraftFile(t, "plan.json",
		`{"checklist":[{"title":"TODO"},{"title":"Add schema"},{"title":"Update router"}],"gates":[{"command":"make typecheck"}]}`)

	cmd := newTestCompileCmd(t)
	require.NoError(t, cmd.Flag("output").Value.Set(OutputJSON))

	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), cmd, path, &buf))

	var cfg domain.HarnessConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cfg))
	require.Len(t, cfg.Checklist, 2)
	assert.Equal(t, "item-1", cfg.Checklist[0].ID)
	assert.Equal(t, "Add schema", cfg.Checklist[0].Title)
	assert.True(t, cfg.Loop.AutoCommit)
}

func TestRunCompileMarkdownDraft(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	path := writeDraftFile(t, "plan.md",
		"Here you go:\n\n```json\n{\"checklist\":[{\"title\":\"Fix login\"}],\"gates\":[{\"command\":\"rm -rf /\"}]}\n```\n")

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), cmd, path, &buf))

	out := buf.String()
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "unsafe gate commands were dropped")
	assert.Contains(t, out, "auto-commit: disabled")
	assert.NotContains(t, out, "rm -rf")
}

func TestRunCompileYAMLDraft(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	path := writeDraftFile(t, "plan.yaml", `
checklist:
  - title: Add schema
gates:
  - command: make test
`)

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), cmd, path, &buf))

	out := buf.String()
	assert.Contains(t, out, "Add schema")
	assert.Contains(t, out, "make test")
	assert.Contains(t, out, "auto-commit: enabled")
}

func TestRunCompileEmptyDraftUsesFallback(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	path := writeDraftFile(t, "plan.json", `{}`)

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), cmd, path, &buf))

	out := buf.String()
	assert.Contains(t, out, "fallback item synthesized")
	assert.Contains(t, out, "auto-commit: disabled")
}

func TestRunCompileUnparsableDraft(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	path := writeDraftFile(t, "plan.txt", "no draft here")

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	err := runCompile(context.Background(), cmd, path, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
}

func TestRunCompileMissingFile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	err := runCompile(context.Background(), cmd, filepath.Join(t.TempDir(), "absent.json"), &buf)
	require.Error(t, err)
}

func TestRunCompileReadsStdin(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	cmd := newTestCompileCmd(t)
	cmd.SetIn(strings.NewReader(`{"checklist":[{"title":"From stdin"}]}`))

	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), cmd, "", &buf))
	assert.Contains(t, buf.String(), "From stdin")
}

func TestRunCompileHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newTestCompileCmd(t)
	var buf bytes.Buffer
	err := runCompile(ctx, cmd, "irrelevant", &buf)
	assert.ErrorIs(t, err, context.Canceled)
}
