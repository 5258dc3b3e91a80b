package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/git-deploy/internal/ci"
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/git"
	"github.com/mrz1836/git-deploy/internal/publish"
	"github.com/mrz1836/git-deploy/internal/release"
	"github.com/mrz1836/git-deploy/internal/signal"
)

func TestPush_NotRequired(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	backend := &failingBackend{}

	out, err := execute(t, testDeps(ci.Context{Provider: "travis", Branch: "feature/x"}, backend), "push", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "No release required")
	assert.Zero(t, backend.clones.Load())
}

func TestPush_NotRequired_JSON(t *testing.T) {
	backend := &failingBackend{}

	out, err := execute(t, testDeps(ci.Context{}, backend), "push", "-o", "json", writeConfig(t))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "not_required", got["kind"])
	assert.Zero(t, backend.clones.Load())
}

func TestPush_CloneFailure(t *testing.T) {
	backend := &failingBackend{}

	out, err := execute(t, testDeps(ci.Context{Provider: "github", Tag: "v1.0.0"}, backend), "push", writeConfig(t))
	require.Error(t, err)

	assert.Equal(t, constants.ExitError, ExitCodeForError(err))
	require.ErrorIs(t, err, errors.ErrVersionControl)
	assert.Empty(t, out)

	require.Len(t, backend.dirs, 1)
	assert.NoDirExists(t, backend.dirs[0])
}

func TestPush_ConfigErrors(t *testing.T) {
	backend := &failingBackend{}

	_, err := execute(t, testDeps(ci.Context{Tag: "v1.0.0"}, backend), "push", t.TempDir()+"/absent.json")
	assert.Equal(t, constants.ExitConfigLoad, ExitCodeForError(err))

	_, err = execute(t, testDeps(ci.Context{Tag: "v1.0.0"}, backend), "push", writeFile(t, "not json"))
	assert.Equal(t, constants.ExitConfigParse, ExitCodeForError(err))

	assert.Zero(t, backend.clones.Load())
}

func TestPush_InvalidTimeout(t *testing.T) {
	_, err := execute(t, testDeps(ci.Context{}, &failingBackend{}), "push", "--timeout", "soon", writeConfig(t))
	assert.Equal(t, constants.ExitInvalidInput, ExitCodeForError(err))
}

func TestWithCause(t *testing.T) {
	t.Parallel()

	base := &publish.Error{Stage: constants.StageCloning, Op: "clone", Err: context.DeadlineExceeded}

	ctx, cancel := context.WithTimeoutCause(context.Background(), time.Nanosecond, errors.ErrTimeout)
	defer cancel()
	<-ctx.Done()

	err := withCause(ctx, base)
	require.ErrorIs(t, err, errors.ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, base, withCause(context.Background(), base))
}

func TestReportOutcome_Text(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name     string
		outcome  *publish.Outcome
		contains []string
		excludes []string
	}{
		{
			name: "published",
			outcome: &publish.Outcome{
				Kind:      publish.Published,
				VersionID: "1.2.0",
				Trigger:   release.TriggerTag,
				CommitID:  "0123456789abcdef",
				Latest:    "1.2.0",
				Files:     3,
			},
			contains: []string{"✓ Published release 1.2.0", "0123456", "latest", "files"},
			excludes: []string{"0123456789abcdef"},
		},
		{
			name: "no changes",
			outcome: &publish.Outcome{
				Kind:      publish.NoOpNoChanges,
				VersionID: "master",
				Trigger:   release.TriggerBranch,
				Files:     2,
			},
			contains: []string{"⚠ Release master is already published", "branch"},
			excludes: []string{"commit", "latest"},
		},
		{
			name:     "not required",
			outcome:  &publish.Outcome{Kind: publish.NoOpNotRequired},
			contains: []string{"No release required"},
			excludes: []string{"files"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, reportOutcome(&buf, OutputText, tc.outcome))

			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

// interruptingBackend delivers SIGINT to the process during the clone and
// waits for the run to be canceled.
type interruptingBackend struct{}

func (interruptingBackend) Clone(ctx context.Context, _ git.CloneOptions) (git.Repository, error) {
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, errors.Join(errors.ErrVersionControl, ctx.Err())
	case <-time.After(5 * time.Second):
		return nil, errors.ErrTimeout
	}
}

func TestPush_InterruptedBySignal(t *testing.T) {
	var logs, out bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	err := runPush(ctx, &out, &GlobalFlags{Output: OutputText}, &pushOptions{timeout: time.Minute},
		testDeps(ci.Context{Provider: "github", Tag: "v1.0.0"}, interruptingBackend{}), writeConfig(t))

	require.ErrorIs(t, err, signal.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, constants.ExitError, ExitCodeForError(err))
	assert.Contains(t, logs.String(), `"signal":"interrupt"`)
	assert.Contains(t, logs.String(), "push interrupted")
	assert.Empty(t, out.String())
}
