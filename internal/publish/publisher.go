// Package publish commits release artifacts into the target repository.
//
// A publish run is a strictly sequential pipeline:
//
//	Resolving → Staging → Cloning → Writing → Diffing → LatestUpdate → Committing → Pushing → Done
//
// Builds that are not releases stop at Resolving without touching the
// filesystem or network. Releases whose content is already published stop at
// Diffing. The scoped clone directory is released on every exit path,
// including context cancellation.
//
// Import rules:
//   - CAN import: internal/ci, internal/clock, internal/config, internal/constants,
//     internal/ctxutil, internal/errors, internal/filesystem, internal/git,
//     internal/logging, internal/release, internal/version
//   - MUST NOT import: internal/cli, internal/tui
package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/git-deploy/internal/ci"
	"github.com/mrz1836/git-deploy/internal/clock"
	"github.com/mrz1836/git-deploy/internal/config"
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/ctxutil"
	"github.com/mrz1836/git-deploy/internal/filesystem"
	"github.com/mrz1836/git-deploy/internal/git"
	"github.com/mrz1836/git-deploy/internal/logging"
	"github.com/mrz1836/git-deploy/internal/release"
	"github.com/mrz1836/git-deploy/internal/version"
)

// Publisher publishes releases. It holds no per-run state and may be reused.
type Publisher struct {
	backend     git.Backend
	fs          filesystem.Provider
	clock       clock.Clock
	credentials git.CredentialFactory
	logger      zerolog.Logger
	baseDir     string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock sets the time source for commit signatures.
func WithClock(c clock.Clock) Option {
	return func(p *Publisher) {
		p.clock = c
	}
}

// WithCredentials sets the factory creating one credential source per
// clone and per push.
func WithCredentials(f git.CredentialFactory) Option {
	return func(p *Publisher) {
		p.credentials = f
	}
}

// WithLogger sets the logger for stage transitions. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Publisher) {
		p.logger = l
	}
}

// WithBaseDir sets the directory relative local paths are resolved against.
// The default is the process working directory.
func WithBaseDir(dir string) Option {
	return func(p *Publisher) {
		p.baseDir = dir
	}
}

// New creates a Publisher using backend for version control and fsys for
// file access.
func New(backend git.Backend, fsys filesystem.Provider, opts ...Option) *Publisher {
	p := &Publisher{
		backend:     backend,
		fs:          fsys,
		clock:       clock.RealClock{},
		credentials: git.AgentCredentials(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish resolves the release for ciCtx and, when one is due, commits the
// artifacts under builds/<versionId> and pushes them.
//
// Failures are returned as *Error. The temporary clone directory is removed
// before Publish returns, whatever the outcome.
func (p *Publisher) Publish(ctx context.Context, cfg *config.Config, ciCtx ci.Context) (*Outcome, error) {
	r := &run{
		p:      p,
		cfg:    cfg,
		stage:  constants.StageResolving,
		stages: []constants.PublishStage{constants.StageResolving},
		logger: p.logger.With().Str("component", "publish").Logger(),
	}

	decision, err := release.Resolve(cfg, ciCtx)
	if err != nil {
		return nil, r.fail("resolve", "", err)
	}
	if !decision.Required {
		r.enter(constants.StageDone)
		r.logger.Debug().
			Bool("ci_detected", ciCtx.Detected()).
			Str("provider", ciCtx.Provider).
			Msg("release not required")
		return r.outcome(NoOpNotRequired), nil
	}

	r.decision = decision
	r.logger = r.logger.With().Str("version_id", decision.VersionID).Logger()
	return r.publish(ctx)
}

// run carries the state of a single Publish call.
type run struct {
	p        *Publisher
	cfg      *config.Config
	decision release.Decision
	stage    constants.PublishStage
	stages   []constants.PublishStage
	files    int
	latest   string
	commit   git.CommitID
	logger   zerolog.Logger
}

func (r *run) publish(ctx context.Context) (out *Outcome, err error) {
	localDir, err := r.cfg.ResolveLocalPath(r.p.baseDir)
	if err != nil {
		return nil, r.fail("resolve local path", r.cfg.Local.Path, err)
	}

	r.enter(constants.StageStaging)
	scoped, err := r.p.fs.TempDir(constants.TempDirPrefix)
	if err != nil {
		return nil, r.fail("create temp dir", "", err)
	}
	defer func() {
		if rerr := scoped.Release(); rerr != nil {
			r.logger.Warn().Err(rerr).Str("dir", scoped.Path).Msg("failed to remove temp dir")
		}
	}()

	repo, err := r.clone(ctx, scoped.Path)
	if err != nil {
		return nil, err
	}

	if err := r.write(ctx, repo, localDir); err != nil {
		return nil, err
	}

	r.enter(constants.StageDiffing)
	changes, err := repo.Status()
	if err != nil {
		return nil, r.fail("status", "", err)
	}
	if len(changes) == 0 {
		r.enter(constants.StageDone)
		r.logger.Debug().Msg("release already published")
		return r.outcome(NoOpNoChanges), nil
	}
	r.logger.Debug().Int("changes", len(changes)).Msg("pending changes")

	if err := r.updateLatest(repo); err != nil {
		return nil, err
	}

	if err := r.commitRelease(repo); err != nil {
		return nil, err
	}

	if err := r.push(ctx, repo); err != nil {
		return nil, err
	}

	r.enter(constants.StageDone)
	return r.outcome(Published), nil
}

func (r *run) clone(ctx context.Context, dir string) (git.Repository, error) {
	r.enter(constants.StageCloning)
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, r.fail("clone", "", err)
	}

	remote := r.cfg.Remote.Git
	creds := r.p.credentials()
	defer func() { _ = creds.Close() }()

	r.logger.Debug().
		Str("url", logging.RedactURL(remote.URL)).
		Str("branch", remote.Branch).
		Msg("cloning target repository")

	repo, err := r.p.backend.Clone(ctx, git.CloneOptions{
		URL:         remote.URL,
		Branch:      remote.Branch,
		Dir:         dir,
		Credentials: creds,
	})
	if err != nil {
		return nil, r.fail("clone", remote.Branch, err)
	}
	return repo, nil
}

// write copies every regular artifact file into builds/<versionId> and
// stages it.
func (r *run) write(ctx context.Context, repo git.Repository, localDir string) error {
	r.enter(constants.StageWriting)

	files, err := r.p.fs.ListFiles(localDir)
	if err != nil {
		return r.fail("list artifacts", localDir, err)
	}

	for _, f := range files {
		if err := ctxutil.Canceled(ctx); err != nil {
			return r.fail("copy", f.Rel, err)
		}

		data, err := r.p.fs.ReadFile(filepath.Join(localDir, filepath.FromSlash(f.Rel)))
		if err != nil {
			return r.fail("read", f.Rel, err)
		}

		rel := path.Join(constants.BuildsDir, r.decision.VersionID, f.Rel)
		if err := r.p.fs.WriteFile(filepath.Join(repo.Workdir(), filepath.FromSlash(rel)), data, f.Mode); err != nil {
			return r.fail("write", rel, err)
		}
		if err := repo.Add(rel); err != nil {
			return r.fail("stage", rel, err)
		}
		r.files++
	}

	r.logger.Debug().Int("files", r.files).Str("source", localDir).Msg("artifacts staged")
	return nil
}

// updateLatest points builds/latest at the highest non-prerelease version
// directory. Without one the link is left as it is.
func (r *run) updateLatest(repo git.Repository) error {
	r.enter(constants.StageLatestUpdate)

	buildsDir := filepath.Join(repo.Workdir(), constants.BuildsDir)
	dirs, err := r.p.fs.ListDirs(buildsDir)
	if err != nil {
		return r.fail("list releases", constants.BuildsDir, err)
	}

	latest, ok := version.Latest(dirs)
	if !ok {
		r.logger.Debug().Msg("no version eligible for latest")
		return nil
	}

	link := filepath.Join(buildsDir, constants.LatestLink)
	rel := path.Join(constants.BuildsDir, constants.LatestLink)
	if err := r.p.fs.RemoveLink(link); err != nil {
		return r.fail("remove link", rel, err)
	}
	if err := r.p.fs.Symlink(latest, link); err != nil {
		return r.fail("symlink", rel, err)
	}
	if err := repo.Add(rel); err != nil {
		return r.fail("stage", rel, err)
	}

	r.latest = latest
	r.logger.Debug().Str("latest", latest).Msg("latest link updated")
	return nil
}

func (r *run) commitRelease(repo git.Repository) error {
	r.enter(constants.StageCommitting)

	branch := r.cfg.Remote.Git.Branch
	head, ok, err := repo.Head(branch)
	if err != nil {
		return r.fail("resolve head", branch, err)
	}
	var parents []git.CommitID
	if ok {
		parents = append(parents, head)
	}

	author := r.cfg.Remote.Git.Author
	sig := git.Signature{Name: author.Name, Email: author.Email, When: r.p.clock.Now()}
	id, err := repo.Commit(git.CommitOptions{
		Message:   CommitMessage(r.decision.VersionID),
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		return r.fail("commit", branch, err)
	}

	r.commit = id
	r.logger.Debug().Str("commit", id.Short()).Int("parents", len(parents)).Msg("release committed")
	return nil
}

func (r *run) push(ctx context.Context, repo git.Repository) error {
	r.enter(constants.StagePushing)

	ref := "refs/heads/" + r.cfg.Remote.Git.Branch
	if err := ctxutil.Canceled(ctx); err != nil {
		return r.fail("push", ref, err)
	}

	creds := r.p.credentials()
	defer func() { _ = creds.Close() }()

	err := repo.Push(ctx, git.PushOptions{
		RemoteName:  constants.DeployRemoteName,
		URL:         r.cfg.Remote.Git.URL,
		RefSpecs:    []string{ref + ":" + ref},
		Credentials: creds,
	})
	if err != nil {
		return r.fail("push", ref, err)
	}
	r.logger.Debug().Str("ref", ref).Msg("release pushed")
	return nil
}

// CommitMessage returns the release commit message for versionID.
func CommitMessage(versionID string) string {
	return fmt.Sprintf(constants.CommitMessageFormat, versionID)
}

func (r *run) enter(next constants.PublishStage) {
	if !IsValidTransition(r.stage, next) {
		panic(fmt.Sprintf("publish: invalid stage transition %s -> %s", r.stage, next))
	}
	r.logger.Debug().Str("from", string(r.stage)).Str("to", string(next)).Msg("stage transition")
	r.stage = next
	r.stages = append(r.stages, next)
}

func (r *run) fail(op, target string, err error) error {
	failed := r.stage
	r.enter(constants.StageFailed)
	return &Error{Stage: failed, Op: op, Path: target, Err: err}
}

func (r *run) outcome(kind OutcomeKind) *Outcome {
	return &Outcome{
		Kind:      kind,
		VersionID: r.decision.VersionID,
		Trigger:   r.decision.Trigger,
		CommitID:  r.commit,
		Latest:    r.latest,
		Files:     r.files,
		Stages:    r.stages,
	}
}
