// Package filesystem provides the file operations the publisher needs:
// artifact tree listing, file copy, symbolic links and a scoped temporary
// directory.
//
// The default Provider is backed by afero over the OS filesystem. Symbolic
// links require a filesystem implementing afero.Linker and afero.Lstater,
// which the in-memory afero filesystem does not.
package filesystem

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/mrz1836/git-deploy/internal/errors"
)

var errTooManyLinks = stderrors.New("too many levels of symbolic links")

// File is a regular file found under a listed root.
type File struct {
	// Rel is the slash-separated path relative to the listed root.
	Rel string
	// Mode is the file's permission bits.
	Mode fs.FileMode
}

// Provider is the filesystem capability consumed by the publisher.
type Provider interface {
	// ListFiles returns every regular file under root, sorted by path.
	// A symlinked root is resolved first. Below it, directories and
	// symbolic links are excluded and never followed.
	ListFiles(root string) ([]File, error)
	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)
	// WriteFile writes data to path, creating parent directories.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// ListDirs returns the names of the immediate subdirectories of dir.
	// A missing dir yields an empty list.
	ListDirs(dir string) ([]string, error)
	// Symlink creates a symbolic link at link pointing to target.
	Symlink(target, link string) error
	// RemoveLink removes the symbolic link at link. A missing link is not
	// an error.
	RemoveLink(link string) error
	// TempDir creates a new temporary directory whose name starts with prefix.
	TempDir(prefix string) (*ScopedDir, error)
}

// Afero implements Provider on an afero filesystem.
type Afero struct {
	fs afero.Fs
}

var _ Provider = (*Afero)(nil)

// NewOS returns a Provider backed by the OS filesystem.
func NewOS() *Afero {
	return New(afero.NewOsFs())
}

// New returns a Provider backed by fsys.
func New(fsys afero.Fs) *Afero {
	return &Afero{fs: fsys}
}

func fsError(err error, op, path string) error {
	return errors.Wrapf(errors.Join(errors.ErrFilesystem, err), "%s %s", op, path)
}

// maxRootLinks bounds how many symbolic links resolveRoot follows.
const maxRootLinks = 40

// ListFiles implements Provider.
func (a *Afero) ListFiles(root string) ([]File, error) {
	resolved, err := a.resolveRoot(root)
	if err != nil {
		return nil, fsError(err, "resolve", root)
	}

	var files []File
	err = afero.Walk(a.fs, resolved, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		files = append(files, File{Rel: filepath.ToSlash(rel), Mode: info.Mode().Perm()})
		return nil
	})
	if err != nil {
		return nil, fsError(err, "list", root)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

// resolveRoot follows symbolic links at root itself, so a root such as
// dist -> build/out lists the files of build/out. Filesystems without
// symlink support return root unchanged.
func (a *Afero) resolveRoot(root string) (string, error) {
	lstater, ok := a.fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return root, nil
	}

	for range maxRootLinks {
		info, lstatCalled, err := lstater.LstatIfPossible(root)
		if err != nil {
			return "", err
		}
		if !lstatCalled || info.Mode()&fs.ModeSymlink == 0 {
			return root, nil
		}
		target, err := reader.ReadlinkIfPossible(root)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(root), target)
		}
		root = target
	}
	return "", &fs.PathError{Op: "resolve", Path: root, Err: errTooManyLinks}
}

// ReadFile implements Provider.
func (a *Afero) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fsError(err, "read", path)
	}
	return data, nil
}

// WriteFile implements Provider.
func (a *Afero) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fsError(err, "mkdir", filepath.Dir(path))
	}
	if err := afero.WriteFile(a.fs, path, data, perm); err != nil {
		return fsError(err, "write", path)
	}
	return nil
}

// ListDirs implements Provider.
func (a *Afero) ListDirs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fsError(err, "list", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Symlink implements Provider.
func (a *Afero) Symlink(target, link string) error {
	linker, ok := a.fs.(afero.Linker)
	if !ok {
		return fsError(afero.ErrNoSymlink, "symlink", link)
	}
	if err := linker.SymlinkIfPossible(target, link); err != nil {
		return fsError(err, "symlink", link)
	}
	return nil
}

// RemoveLink implements Provider.
func (a *Afero) RemoveLink(link string) error {
	if err := a.fs.Remove(link); err != nil && !os.IsNotExist(err) {
		return fsError(err, "remove", link)
	}
	return nil
}

// TempDir implements Provider.
func (a *Afero) TempDir(prefix string) (*ScopedDir, error) {
	dir, err := afero.TempDir(a.fs, "", prefix)
	if err != nil {
		return nil, fsError(err, "create temp dir", prefix)
	}
	return &ScopedDir{Path: dir, fs: a.fs}, nil
}

// ScopedDir is a temporary directory owned by one operation.
// Release removes it; callers defer Release right after creation.
type ScopedDir struct {
	Path string

	fs   afero.Fs
	once sync.Once
	err  error
}

// Release removes the directory and everything in it. It is safe to call
// more than once; later calls return the first result.
func (d *ScopedDir) Release() error {
	d.once.Do(func() {
		if err := d.fs.RemoveAll(d.Path); err != nil {
			d.err = fsError(err, "remove temp dir", d.Path)
		}
	})
	return d.err
}
