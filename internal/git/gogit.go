package git

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/mrz1836/git-deploy/internal/constants"
)

// GoGit is the go-git implementation of Backend.
type GoGit struct {
	logger zerolog.Logger
}

var _ Backend = (*GoGit)(nil)

// NewGoGit creates a go-git backend that logs to logger.
func NewGoGit(logger zerolog.Logger) *GoGit {
	return &GoGit{logger: logger.With().Str("component", "git").Logger()}
}

// Clone implements Backend.
func (g *GoGit) Clone(ctx context.Context, opts CloneOptions) (Repository, error) {
	branchRef := plumbing.NewBranchReferenceName(opts.Branch)

	auth, err := authMethod(opts.URL, opts.Credentials)
	if err != nil {
		return nil, wrapBackendError(err, "clone")
	}

	repo, err := gogit.PlainCloneContext(ctx, opts.Dir, false, &gogit.CloneOptions{
		URL:             opts.URL,
		Auth:            auth,
		RemoteName:      gogit.DefaultRemoteName,
		ReferenceName:   branchRef,
		SingleBranch:    true,
		Tags:            gogit.NoTags,
		InsecureSkipTLS: true,
	})
	switch {
	case err == nil:
		g.logger.Debug().Str("branch", opts.Branch).Msg("cloned target branch")
	case isMissingBranch(err):
		g.logger.Debug().Str("branch", opts.Branch).Err(err).Msg("target branch absent, initializing repository")
		repo, err = initRepository(opts.Dir, opts.URL, branchRef)
		if err != nil {
			return nil, wrapBackendError(err, "init")
		}
	default:
		return nil, wrapBackendError(err, "clone")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, wrapBackendError(err, "open worktree")
	}
	return &goGitRepository{repo: repo, wt: wt, dir: opts.Dir, logger: g.logger}, nil
}

// isMissingBranch reports whether a clone failed only because there is
// nothing to check out yet.
func isMissingBranch(err error) bool {
	return stderrors.Is(err, transport.ErrEmptyRemoteRepository) ||
		stderrors.Is(err, plumbing.ErrReferenceNotFound) ||
		stderrors.Is(err, gogit.NoMatchingRefSpecError{})
}

func initRepository(dir, url string, branchRef plumbing.ReferenceName) (*gogit.Repository, error) {
	// A failed clone may leave a partial .git behind.
	if err := os.RemoveAll(filepath.Join(dir, gogit.GitDirName)); err != nil {
		return nil, err
	}
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: gogit.DefaultRemoteName,
		URLs: []string{url},
	}); err != nil {
		return nil, err
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, err
	}
	return repo, nil
}

// authMethod returns SSH public key auth for ssh endpoints. Other transports
// use credentials embedded in the URL, if any.
func authMethod(url string, creds *CredentialSource) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil, err
	}
	if ep.Protocol != "ssh" || creds == nil {
		return nil, nil
	}
	user := ep.User
	if user == "" {
		user = constants.DefaultSSHUser
	}
	return &gitssh.PublicKeysCallback{
		User:     user,
		Callback: creds.Next,
		HostKeyCallbackHelper: gitssh.HostKeyCallbackHelper{
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // trusted internal remote
		},
	}, nil
}

type goGitRepository struct {
	repo   *gogit.Repository
	wt     *gogit.Worktree
	dir    string
	logger zerolog.Logger
}

func (r *goGitRepository) Workdir() string {
	return r.dir
}

func (r *goGitRepository) Add(path string) error {
	if _, err := r.wt.Add(path); err != nil {
		return wrapBackendError(err, "stage "+path)
	}
	return nil
}

func (r *goGitRepository) Status() ([]Change, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, wrapBackendError(err, "status")
	}
	var changes []Change
	for path, fs := range status {
		if fs.Staging == gogit.Unmodified || fs.Staging == gogit.Untracked {
			continue
		}
		changes = append(changes, Change{
			Path:     path,
			Staging:  StatusCode(fs.Staging),
			Worktree: StatusCode(fs.Worktree),
		})
	}
	return changes, nil
}

func (r *goGitRepository) Head(branch string) (CommitID, bool, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapBackendError(err, "resolve head of "+branch)
	}
	return CommitID(ref.Hash().String()), true, nil
}

func (r *goGitRepository) Commit(opts CommitOptions) (CommitID, error) {
	parents := make([]plumbing.Hash, 0, len(opts.Parents))
	for _, p := range opts.Parents {
		parents = append(parents, plumbing.NewHash(string(p)))
	}
	hash, err := r.wt.Commit(opts.Message, &gogit.CommitOptions{
		Author:    toObjectSignature(opts.Author),
		Committer: toObjectSignature(opts.Committer),
		Parents:   parents,
	})
	if err != nil {
		return "", wrapBackendError(err, "commit")
	}
	return CommitID(hash.String()), nil
}

func (r *goGitRepository) Push(ctx context.Context, opts PushOptions) error {
	remote, err := r.repo.Remote(opts.RemoteName)
	if stderrors.Is(err, gogit.ErrRemoteNotFound) {
		remote, err = r.repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: opts.RemoteName,
			URLs: []string{opts.URL},
		})
	}
	if err != nil {
		return wrapBackendError(err, "create remote "+opts.RemoteName)
	}

	auth, err := authMethod(opts.URL, opts.Credentials)
	if err != nil {
		return wrapBackendError(err, "push")
	}

	specs := make([]gitconfig.RefSpec, 0, len(opts.RefSpecs))
	for _, s := range opts.RefSpecs {
		spec := gitconfig.RefSpec(s)
		if err := spec.Validate(); err != nil {
			return wrapBackendError(err, "push")
		}
		specs = append(specs, spec)
	}

	err = remote.PushContext(ctx, &gogit.PushOptions{
		RemoteName:      opts.RemoteName,
		RefSpecs:        specs,
		Auth:            auth,
		InsecureSkipTLS: true,
	})
	if stderrors.Is(err, gogit.NoErrAlreadyUpToDate) {
		r.logger.Debug().Str("remote", opts.RemoteName).Msg("remote already up to date")
		return nil
	}
	return wrapBackendError(err, "push")
}

func toObjectSignature(s Signature) *object.Signature {
	return &object.Signature{Name: s.Name, Email: s.Email, When: s.When}
}
