package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/git-deploy/internal/config"
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/publish"
	"github.com/mrz1836/git-deploy/internal/signal"
	"github.com/mrz1836/git-deploy/internal/tui"
)

type pushOptions struct {
	timeout time.Duration
}

func newPushCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	opts := &pushOptions{}

	cmd := &cobra.Command{
		Use:   "push <config-path>",
		Short: "Publish the current CI build into the target repository",
		Long: `Publish the build artifacts under builds/<version>/ of the target repository,
update builds/latest and push. Builds that are not releases, and releases whose
content is already published, finish without creating a commit.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd.Context(), cmd.OutOrStdout(), flags, opts, deps, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", constants.DefaultPushTimeout, "abort the push after this long (0 disables)")

	return cmd
}

func runPush(ctx context.Context, w io.Writer, flags *GlobalFlags, opts *pushOptions, deps *commandDeps, path string) error {
	logger := *zerolog.Ctx(ctx)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, opts.timeout, errors.ErrTimeout)
		defer cancel()
	}

	handler := signal.NewHandler(ctx)
	defer handler.Stop()
	ctx = handler.Context()

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return err
	}

	wd, err := deps.getwd()
	if err != nil {
		return errors.Join(errors.ErrFilesystem, err)
	}

	publisher := publish.New(
		deps.backend(logger),
		deps.fs,
		publish.WithLogger(logger),
		publish.WithBaseDir(wd),
		publish.WithCredentials(deps.credentials),
	)

	outcome, err := publisher.Publish(ctx, cfg, deps.ciContext())
	if err != nil {
		if sig := handler.Received(); sig != nil {
			logger.Warn().Str("signal", sig.String()).Msg("push interrupted, temporary clone removed")
		}
		return withCause(ctx, err)
	}

	logger.Info().
		Str("kind", string(outcome.Kind)).
		Str("version_id", outcome.VersionID).
		Str("commit", string(outcome.CommitID)).
		Msg("push finished")

	return reportOutcome(w, flags.Output, outcome)
}

// withCause attaches the reason ctx was canceled, such as a timeout or a
// signal, when err does not already carry it.
func withCause(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	if cause == nil || stderrors.Is(err, cause) {
		return err
	}
	return fmt.Errorf("%w: %w", err, cause)
}

func reportOutcome(w io.Writer, format string, outcome *publish.Outcome) error {
	out := tui.NewOutput(w, format)
	if format == OutputJSON {
		return out.JSON(outcome)
	}

	switch outcome.Kind {
	case publish.NoOpNotRequired:
		out.Info("No release required for this build")
		return nil
	case publish.NoOpNoChanges:
		out.Warning(fmt.Sprintf("Release %s is already published", outcome.VersionID))
	case publish.Published:
		out.Success(fmt.Sprintf("Published release %s", outcome.VersionID))
	}

	out.Fields([]tui.Field{
		{Key: "version", Value: outcome.VersionID},
		{Key: "trigger", Value: string(outcome.Trigger)},
		{Key: "commit", Value: outcome.CommitID.Short()},
		{Key: "files", Value: strconv.Itoa(outcome.Files)},
		{Key: "latest", Value: outcome.Latest},
	})
	return nil
}
