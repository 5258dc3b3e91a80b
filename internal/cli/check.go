package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/git-deploy/internal/config"
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/release"
	"github.com/mrz1836/git-deploy/internal/tui"
)

// checkResult is the JSON form of a check.
type checkResult struct {
	Required  bool            `json:"required"`
	VersionID string          `json:"version_id,omitempty"`
	Trigger   release.Trigger `json:"trigger,omitempty"`
	Provider  string          `json:"provider,omitempty"`
}

func newCheckCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "check <config-path>",
		Short: "Report whether the current CI build is a release",
		Long: `Resolve the release for the current CI build without touching the target
repository. Prints the version id and exits 0 when a release is required,
exits 1 when it is not.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), flags, deps, args[0])
		},
	}
}

func runCheck(ctx context.Context, w io.Writer, flags *GlobalFlags, deps *commandDeps, path string) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return err
	}

	ciCtx := deps.ciContext()
	decision, err := release.Resolve(cfg, ciCtx)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("provider", ciCtx.Provider).
		Str("tag", ciCtx.Tag).
		Str("branch", ciCtx.Branch).
		Bool("required", decision.Required).
		Msg("release resolved")

	if flags.Output == OutputJSON {
		result := checkResult{
			Required:  decision.Required,
			VersionID: decision.VersionID,
			Trigger:   decision.Trigger,
			Provider:  ciCtx.Provider,
		}
		if err := tui.NewOutput(w, OutputJSON).JSON(result); err != nil {
			return err
		}
	} else if decision.Required {
		_, _ = fmt.Fprintln(w, decision.VersionID)
	}

	if !decision.Required {
		return errors.NewExitCodeError(constants.ExitNotRequired, errors.ErrReleaseNotRequired)
	}
	return nil
}
