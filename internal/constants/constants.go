// Package constants provides centralized constant values used throughout git-deploy.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Target repository layout.
const (
	// BuildsDir is the top-level directory in the target repository under
	// which every release is written as BuildsDir/<versionId>/.
	BuildsDir = "builds"

	// LatestLink is the name of the symlink inside BuildsDir that points at
	// the highest non-prerelease semantic version release.
	LatestLink = "latest"

	// CommitMessageFormat is the fixed commit message template. The single
	// verb is the release version identifier.
	CommitMessageFormat = "Written version '%s' to " + BuildsDir

	// DeployRemoteName is the name of the remote created for the final push.
	DeployRemoteName = "deploy-target"

	// TempDirPrefix is the prefix used for the scoped clone directory.
	TempDirPrefix = "git-deploy-"
)

// Authentication bounds.
const (
	// MaxCredentialAttempts is the maximum number of credential callbacks a
	// single clone or push may request before failing with an authentication error.
	MaxCredentialAttempts = 10

	// DefaultSSHUser is the SSH user used when the remote URL does not name one.
	DefaultSSHUser = "git"

	// SSHAuthSockEnv is the environment variable naming the ssh-agent socket.
	SSHAuthSockEnv = "SSH_AUTH_SOCK"
)

// Process exit codes used by the CLI.
const (
	// ExitSuccess indicates a release is required (check) or the push finished,
	// including no-op pushes.
	ExitSuccess = 0

	// ExitNotRequired indicates that check found no release to publish.
	ExitNotRequired = 1

	// ExitInvalidInput indicates invalid flags or arguments.
	ExitInvalidInput = 2

	// ExitError indicates a general failure.
	ExitError = 3

	// ExitConfigLoad indicates the config file could not be read.
	ExitConfigLoad = 40

	// ExitConfigParse indicates the config file is not valid JSON.
	ExitConfigParse = 41
)

// Timeouts.
const (
	// DefaultPushTimeout bounds a whole push invocation, including clone and push.
	DefaultPushTimeout = 10 * time.Minute
)
