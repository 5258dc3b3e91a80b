// Package git provides the version control backend used to publish releases.
//
// The Backend and Repository interfaces expose only the operations the
// publisher needs: clone (or initialize) a branch, stage paths, inspect
// pending changes, resolve the branch head, commit the index and push.
// GoGit implements them in-process with go-git, so no git binary is needed
// on the CI host.
//
// Key Components:
//
//   - Backend: clones a target branch into a working directory
//   - Repository: index, status, commit and push on that working directory
//   - CredentialSource: bounded per-operation SSH key supplier
//
// Security Considerations:
//
// TLS certificate verification and SSH host key verification are disabled.
// The target repository is treated as a trusted internal remote; this is an
// explicit trust decision of the deployment model.
package git

import (
	"context"
	"time"
)

// CommitID is the hex object name of a commit.
type CommitID string

// Short returns the abbreviated commit id.
func (c CommitID) Short() string {
	if len(c) > 7 {
		return string(c[:7])
	}
	return string(c)
}

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// StatusCode is the state of a path in the index or working tree.
type StatusCode byte

// Status codes, matching the letters used by git status --porcelain.
const (
	Unmodified StatusCode = ' '
	Untracked  StatusCode = '?'
	Modified   StatusCode = 'M'
	Added      StatusCode = 'A'
	Deleted    StatusCode = 'D'
	Renamed    StatusCode = 'R'
	Copied     StatusCode = 'C'
)

// Change is a path with pending changes relative to the last commit.
type Change struct {
	Path     string
	Staging  StatusCode
	Worktree StatusCode
}

// CloneOptions configures Backend.Clone.
type CloneOptions struct {
	// URL of the remote repository.
	URL string
	// Branch to check out. A missing branch or an empty remote yields a fresh
	// repository whose HEAD points at Branch.
	Branch string
	// Dir is the destination working directory. It must exist and be empty.
	Dir string
	// Credentials supplies SSH keys. May be nil for transports that do not
	// need them.
	Credentials *CredentialSource
}

// CommitOptions configures Repository.Commit.
type CommitOptions struct {
	Message   string
	Author    Signature
	Committer Signature
	// Parents of the new commit. Empty creates a root commit.
	Parents []CommitID
}

// PushOptions configures Repository.Push.
type PushOptions struct {
	// RemoteName is created pointing at URL when it does not exist yet.
	RemoteName string
	URL        string
	// RefSpecs in src:dst form, e.g. refs/heads/main:refs/heads/main.
	RefSpecs    []string
	Credentials *CredentialSource
}

// Backend clones repositories.
type Backend interface {
	// Clone checks out opts.Branch of opts.URL into opts.Dir.
	Clone(ctx context.Context, opts CloneOptions) (Repository, error)
}

// Repository is a cloned working tree with its index.
type Repository interface {
	// Workdir returns the working tree root.
	Workdir() string
	// Add stages the slash-separated path, relative to Workdir.
	Add(path string) error
	// Status returns paths whose index entry differs from the last commit.
	Status() ([]Change, error)
	// Head resolves the tip of branch. The boolean is false when the branch
	// has no commits yet.
	Head(branch string) (CommitID, bool, error)
	// Commit writes the index as a tree and commits it on the checked out
	// branch, returning the new commit id.
	Commit(opts CommitOptions) (CommitID, error)
	// Push pushes opts.RefSpecs to the remote. A remote that is already up to
	// date is not an error.
	Push(ctx context.Context, opts PushOptions) error
}
