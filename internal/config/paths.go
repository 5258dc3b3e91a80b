package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/git-deploy/internal/errors"
)

// ResolveLocalPath returns the absolute artifact directory. Absolute paths are
// returned cleaned, "~" and "~/..." expand to the home directory, and any
// other path is joined onto baseDir (normally the invocation directory).
func (c *Config) ResolveLocalPath(baseDir string) (string, error) {
	return resolvePath(c.Local.Path, baseDir, os.UserHomeDir)
}

func resolvePath(p, baseDir string, home func() (string, error)) (string, error) {
	switch {
	case filepath.IsAbs(p):
		return filepath.Clean(p), nil
	case p == "~" || strings.HasPrefix(p, "~/"):
		dir, err := home()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		return filepath.Join(dir, strings.TrimPrefix(p, "~")), nil
	default:
		if baseDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, "failed to get working directory")
			}
			baseDir = wd
		}
		return filepath.Join(baseDir, p), nil
	}
}
