package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskmux/internal/ctxutil"
	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
	"github.com/mrz1836/taskmux/internal/harness"
)

// AddCompileCommand adds the compile command to the root command.
func AddCompileCommand(root *cobra.Command) {
	root.AddCommand(newCompileCmd())
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [draft-file]",
		Short: "Compile a plan draft into an execution harness",
		Long: `Compile a loosely-structured plan draft into a vetted harness configuration.

The draft may be a JSON or YAML file with "checklist" and "gates" entries,
or a markdown/text file containing a fenced JSON block (the typical shape
of model output). Reads stdin when no file is given or the file is "-".

Blank, placeholder and duplicate checklist items are dropped; unsafe gate
commands are removed. Auto-commit is enabled only when the draft was
well-formed and no gate had to be dropped.

Examples:
  taskmux compile plan.json
  taskmux compile plan.md --output json
  cat draft.yaml | taskmux compile`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCompile(cmd.Context(), cmd, path, os.Stdout)
		},
	}

	return cmd
}

func runCompile(ctx context.Context, cmd *cobra.Command, path string, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()

	draft, err := readDraft(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := harness.Compile(draft)
	logger.Info().
		Int("checklist_items", len(cfg.Checklist)).
		Int("gates", len(cfg.Gates)).
		Bool("used_fallback", cfg.UsedFallback).
		Bool("dropped_unsafe_gates", cfg.DroppedUnsafeGates).
		Msg("compiled harness")

	if outputFormat == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	return renderHarness(w, cfg)
}

// readDraft loads a draft from a file or stdin. YAML drafts are detected by
// extension; everything else goes through the fenced-JSON extractor, which
// also accepts a bare JSON object.
func readDraft(path string, stdin io.Reader) (domain.Draft, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return domain.Draft{}, errors.Wrap(err, "read draft from stdin")
		}
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // User-supplied draft path
		if err != nil {
			return domain.Draft{}, errors.Wrapf(err, "read draft file %s", path)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var draft domain.Draft
		if err := yaml.Unmarshal(data, &draft); err != nil {
			return domain.Draft{}, errors.Wrap(errors.ErrParse, err.Error())
		}
		return draft, nil
	default:
		return harness.ExtractDraft(string(data))
	}
}

// renderHarness writes the human-readable view of a compiled harness.
func renderHarness(w io.Writer, cfg *domain.HarnessConfig) error {
	st := newStyles()

	fmt.Fprintln(w, st.Title.Render("Checklist"))
	for _, item := range cfg.Checklist {
		fmt.Fprintln(w, st.Item.Render(fmt.Sprintf("%s  %s", st.Muted.Render(item.ID), item.Title)))
	}

	fmt.Fprintln(w, st.Title.Render("Gates"))
	if len(cfg.Gates) == 0 {
		fmt.Fprintln(w, st.Item.Render(st.Muted.Render("(none)")))
	}
	for _, gate := range cfg.Gates {
		fmt.Fprintln(w, st.Item.Render(gate.Command))
	}

	if cfg.UsedFallback {
		fmt.Fprintln(w, st.Warning.Render("draft had no usable checklist items; fallback item synthesized"))
	}
	if cfg.DroppedUnsafeGates {
		fmt.Fprintln(w, st.Warning.Render("unsafe gate commands were dropped"))
	}
	if cfg.Loop.AutoCommit {
		fmt.Fprintln(w, st.Success.Render("auto-commit: enabled"))
	} else {
		fmt.Fprintln(w, st.Muted.Render("auto-commit: disabled"))
	}
	return nil
}
