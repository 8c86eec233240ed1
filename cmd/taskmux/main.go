// Package main provides the entry point for the taskmux CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/taskmux/internal/cli"
	"github.com/mrz1836/taskmux/internal/signal"
)

// Build information set via ldflags.
var (
	version = "dev"     //nolint:gochecknoglobals // Set at build time
	commit  = "none"    //nolint:gochecknoglobals // Set at build time
	date    = "unknown" //nolint:gochecknoglobals // Set at build time
)

func main() {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	err := cli.Execute(h.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
