package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mrz1836/git-deploy/internal/filesystem"
	"github.com/mrz1836/git-deploy/internal/git"
)

const linkPrefix = "link:"

type fakeCommit struct {
	ID      git.CommitID
	Opts    git.CommitOptions
	Tree    map[string]string
	Message string
}

// fakeRemote is an in-memory branch: a committed tree and its history.
type fakeRemote struct {
	mu      sync.Mutex
	tree    map[string]string
	commits []fakeCommit

	cloneErr  error
	commitErr error
	pushErr   error

	clones      int
	pushes      int
	cloneCreds  []*git.CredentialSource
	pushCreds   []*git.CredentialSource
	pushOptions []git.PushOptions
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{tree: map[string]string{}}
}

func (f *fakeRemote) head() (git.CommitID, bool) {
	if len(f.commits) == 0 {
		return "", false
	}
	return f.commits[len(f.commits)-1].ID, true
}

func (f *fakeRemote) lastCommit() fakeCommit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits[len(f.commits)-1]
}

func (f *fakeRemote) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commits)
}

func (f *fakeRemote) file(path string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.tree[path]
	return v, ok
}

type fakeBackend struct {
	remote *fakeRemote
}

func (b *fakeBackend) Clone(_ context.Context, opts git.CloneOptions) (git.Repository, error) {
	r := b.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clones++
	r.cloneCreds = append(r.cloneCreds, opts.Credentials)
	if r.cloneErr != nil {
		return nil, r.cloneErr
	}

	for p, content := range r.tree {
		dst := filepath.Join(opts.Dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, err
		}
		if target, ok := strings.CutPrefix(content, linkPrefix); ok {
			if err := os.Symlink(target, dst); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
			return nil, err
		}
	}

	head, _ := r.head()
	return &fakeRepo{
		remote: r,
		dir:    opts.Dir,
		base:   copyTree(r.tree),
		index:  copyTree(r.tree),
		head:   head,
	}, nil
}

type fakeRepo struct {
	remote *fakeRemote
	dir    string
	base   map[string]string
	index  map[string]string
	head   git.CommitID
	added  []string

	pending *fakeCommit
}

func (r *fakeRepo) Workdir() string { return r.dir }

func (r *fakeRepo) Add(path string) error {
	full := filepath.Join(r.dir, filepath.FromSlash(path))
	info, err := os.Lstat(full)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(full)
		if err != nil {
			return err
		}
		r.index[path] = linkPrefix + target
	} else {
		data, err := os.ReadFile(full)
		if err != nil {
			return err
		}
		r.index[path] = string(data)
	}
	r.added = append(r.added, path)
	return nil
}

func (r *fakeRepo) Status() ([]git.Change, error) {
	var changes []git.Change
	for p, v := range r.index {
		old, ok := r.base[p]
		switch {
		case !ok:
			changes = append(changes, git.Change{Path: p, Staging: git.Added, Worktree: git.Unmodified})
		case old != v:
			changes = append(changes, git.Change{Path: p, Staging: git.Modified, Worktree: git.Unmodified})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

func (r *fakeRepo) Head(string) (git.CommitID, bool, error) {
	return r.head, r.head != "", nil
}

func (r *fakeRepo) Commit(opts git.CommitOptions) (git.CommitID, error) {
	r.remote.mu.Lock()
	defer r.remote.mu.Unlock()
	if r.remote.commitErr != nil {
		return "", r.remote.commitErr
	}
	id := git.CommitID(fmt.Sprintf("%040x", len(r.remote.commits)+1))
	r.pending = &fakeCommit{ID: id, Opts: opts, Tree: copyTree(r.index), Message: opts.Message}
	return id, nil
}

func (r *fakeRepo) Push(_ context.Context, opts git.PushOptions) error {
	r.remote.mu.Lock()
	defer r.remote.mu.Unlock()

	r.remote.pushes++
	r.remote.pushCreds = append(r.remote.pushCreds, opts.Credentials)
	r.remote.pushOptions = append(r.remote.pushOptions, opts)
	if r.remote.pushErr != nil {
		return r.remote.pushErr
	}
	if r.pending != nil {
		r.remote.commits = append(r.remote.commits, *r.pending)
		r.remote.tree = r.pending.Tree
	}
	return nil
}

func copyTree(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// spyFS records temp directories so tests can assert they are removed.
type spyFS struct {
	filesystem.Provider

	mu       sync.Mutex
	tempDirs []string
}

func newSpyFS() *spyFS {
	return &spyFS{Provider: filesystem.NewOS()}
}

func (s *spyFS) TempDir(prefix string) (*filesystem.ScopedDir, error) {
	dir, err := s.Provider.TempDir(prefix)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.tempDirs = append(s.tempDirs, dir.Path)
	s.mu.Unlock()
	return dir, nil
}

func (s *spyFS) created() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tempDirs...)
}
