// Package main provides the entry point for the git-deploy CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/git-deploy/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "dev"     //nolint:gochecknoglobals // ldflags target
	commit  = "none"    //nolint:gochecknoglobals // ldflags target
	date    = "unknown" //nolint:gochecknoglobals // ldflags target
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(context.Background(), info); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
