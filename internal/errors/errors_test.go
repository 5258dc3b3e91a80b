package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployerrors "github.com/mrz1836/git-deploy/internal/errors"
)

// testError is a custom error type used to test default branches
// in Actionable without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrConfigLoad", deployerrors.ErrConfigLoad, "failed to load config file"},
		{"ErrConfigParse", deployerrors.ErrConfigParse, "failed to parse config file"},
		{"ErrConfigValidation", deployerrors.ErrConfigValidation, "invalid configuration"},
		{"ErrAuthentication", deployerrors.ErrAuthentication, "authentication failed"},
		{"ErrVersionControl", deployerrors.ErrVersionControl, "version control operation failed"},
		{"ErrRemoteUnreachable", deployerrors.ErrRemoteUnreachable, "remote unreachable"},
		{"ErrPushRejected", deployerrors.ErrPushRejected, "push rejected"},
		{"ErrFilesystem", deployerrors.ErrFilesystem, "filesystem operation failed"},
		{"ErrReleaseNotRequired", deployerrors.ErrReleaseNotRequired, "release not required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	allErrors := []error{
		deployerrors.ErrConfigLoad,
		deployerrors.ErrConfigParse,
		deployerrors.ErrConfigValidation,
		deployerrors.ErrAuthentication,
		deployerrors.ErrVersionControl,
		deployerrors.ErrRemoteUnreachable,
		deployerrors.ErrPushRejected,
		deployerrors.ErrFilesystem,
		deployerrors.ErrReleaseNotRequired,
	}

	for i, a := range allErrors {
		for j, b := range allErrors {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%v should not match %v", a, b)
		}
	}
}

func TestWrap_PreservesChain(t *testing.T) {
	wrapped1 := deployerrors.Wrap(deployerrors.ErrVersionControl, "first wrap")
	wrapped2 := deployerrors.Wrap(wrapped1, "second wrap")

	require.ErrorIs(t, wrapped2, deployerrors.ErrVersionControl)
	assert.Equal(t, "second wrap: first wrap: version control operation failed", wrapped2.Error())
}

func TestWrap_NilError(t *testing.T) {
	assert.NoError(t, deployerrors.Wrap(nil, "should not appear"))
	assert.NoError(t, deployerrors.Wrapf(nil, "ref %s", "main"))
}

func TestWrapf_FormatsContext(t *testing.T) {
	wrapped := deployerrors.Wrapf(deployerrors.ErrFilesystem, "write %s (%d bytes)", "builds/1.0.0/a.txt", 12)

	require.ErrorIs(t, wrapped, deployerrors.ErrFilesystem)
	assert.Equal(t, "write builds/1.0.0/a.txt (12 bytes): filesystem operation failed", wrapped.Error())
}

func TestActionable_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"ErrConfigLoad", deployerrors.ErrConfigLoad, "could not be read"},
		{"ErrConfigParse", deployerrors.ErrConfigParse, "not valid JSON"},
		{"ErrAuthentication", deployerrors.ErrAuthentication, "authenticate"},
		{"wrapped ErrVersionControl", deployerrors.Wrap(deployerrors.ErrVersionControl, "push"), "git operation"},
		{"unknown", testError{msg: "something odd"}, "something odd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, _ := deployerrors.Actionable(tc.err)
			assert.Contains(t, msg, tc.contains)
		})
	}
}

func TestActionable(t *testing.T) {
	msg, action := deployerrors.Actionable(deployerrors.Wrap(deployerrors.ErrAuthentication, "clone"))
	assert.Contains(t, msg, "authenticate")
	assert.Contains(t, action, "SSH_AUTH_SOCK")

	msg, action = deployerrors.Actionable(deployerrors.ErrReleaseNotRequired)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)

	msg, action = deployerrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestExitCodeError(t *testing.T) {
	base := deployerrors.ErrReleaseNotRequired
	exitErr := deployerrors.NewExitCodeError(1, base)

	assert.Equal(t, base.Error(), exitErr.Error())
	require.ErrorIs(t, exitErr, base)

	code, ok := deployerrors.ExitCode(fmt.Errorf("context: %w", exitErr))
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	_, ok = deployerrors.ExitCode(base)
	assert.False(t, ok)

	_, ok = deployerrors.ExitCode(nil)
	assert.False(t, ok)
}

func TestJoin(t *testing.T) {
	cause := testError{msg: "open release.json: permission denied"}
	joined := deployerrors.Join(deployerrors.ErrConfigLoad, cause)

	require.ErrorIs(t, joined, deployerrors.ErrConfigLoad)
	require.ErrorIs(t, joined, cause)
	assert.Equal(t, "open release.json: permission denied: failed to load config file", joined.Error())

	assert.Equal(t, deployerrors.ErrConfigLoad, deployerrors.Join(deployerrors.ErrConfigLoad, nil))
}
