// Package cli provides the command-line interface for git-deploy.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/git-deploy/internal/ci"
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/filesystem"
	"github.com/mrz1836/git-deploy/internal/git"
	"github.com/mrz1836/git-deploy/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// commandDeps are the collaborators commands reach outside the process with.
type commandDeps struct {
	// ciContext captures the CI signals for this invocation.
	ciContext func() ci.Context
	// backend creates the version control backend.
	backend func(zerolog.Logger) git.Backend
	// fs is the filesystem the publisher reads artifacts from.
	fs filesystem.Provider
	// credentials creates one credential source per clone and per push.
	credentials git.CredentialFactory
	// getwd returns the directory relative local paths resolve against.
	getwd func() (string, error)
}

func defaultDeps() *commandDeps {
	return &commandDeps{
		ciContext: ci.FromProcess,
		backend: func(l zerolog.Logger) git.Backend {
			return git.NewGoGit(l)
		},
		fs:          filesystem.NewOS(),
		credentials: git.AgentCredentials(),
		getwd:       os.Getwd,
	}
}

// newRootCmd creates and returns the root command for the git-deploy CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, deps *commandDeps) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "git-deploy",
		Short: "Publish CI build artifacts into a git repository",
		Long: `git-deploy publishes the artifacts of a CI build into builds/<version>/ of a
target git repository and keeps builds/latest pointing at the newest stable release.

A build is a release when it was triggered by a semantic version tag (with tag
releases enabled) or by one of the configured release branches.

Exit codes:
  0   release required (check) or push finished
  1   no release required (check)
  2   invalid flags or arguments
  3   any other error
  40  config file could not be read
  41  config file is not valid JSON`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			resolveGlobalFlags(v, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			logger, err := InitLogger(LoggerOptions{
				Verbose: flags.Verbose,
				Quiet:   flags.Quiet,
				LogFile: flags.LogFile,
				RunID:   uuid.NewString(),
			})
			if err != nil {
				logger.Warn().Err(err).Str("path", flags.LogFile).Msg("log file unavailable, logging to stderr only")
			}
			cmd.SetContext(logger.WithContext(cmd.Context()))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewExitCodeError(constants.ExitInvalidInput, err)
	})

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(newCheckCmd(flags, deps))
	cmd.AddCommand(newPushCmd(flags, deps))

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// exactArgs is cobra.ExactArgs with invalid input marked for exit code 2.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.NewExitCodeError(constants.ExitInvalidInput, err)
		}
		return nil
	}
}

// Execute runs the root command with the provided context and build info.
// Errors are reported on stderr in the selected output format; the caller
// only maps the returned error to an exit code.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, defaultDeps())
	err := cmd.ExecuteContext(ctx)
	reportError(cmd.ErrOrStderr(), flags.Output, err)
	return err
}

// reportError prints err unless it only signals that no release is due.
func reportError(w io.Writer, format string, err error) {
	if err == nil || stderrors.Is(err, errors.ErrReleaseNotRequired) {
		return
	}
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	tui.NewOutput(w, format).Error(err)
}
