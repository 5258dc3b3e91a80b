package config

import (
	"strings"

	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/version"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error wrapping ErrConfigValidation describing the first
// failure found.
//
// Validation rules:
//   - local.path must not be empty
//   - local.git.branches entries must be non-empty, must not be semantic versions
//     and must not be the latest link name
//   - remote.git.url and remote.git.branch must not be empty
//   - remote.git.author name and email must not be empty
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if strings.TrimSpace(cfg.Local.Path) == "" {
		return errors.Wrap(errors.ErrConfigValidation, "local.path must not be empty")
	}

	if err := ValidateBranches(cfg.Local.Git.Branches); err != nil {
		return err
	}

	return validateRemote(&cfg.Remote.Git)
}

// ValidateBranches enforces that branch names and version identifiers never
// collide: a branch named like a semantic version would be published into a
// directory that the latest pointer treats as a version.
func ValidateBranches(branches []string) error {
	for i, b := range branches {
		if strings.TrimSpace(b) == "" {
			return errors.Wrapf(errors.ErrConfigValidation,
				"local.git.branches[%d] must not be empty", i)
		}
		if b == constants.LatestLink {
			return errors.Wrapf(errors.ErrConfigValidation,
				"local.git.branches[%d] %q is reserved for the latest release link", i, b)
		}
		if version.IsValid(b) {
			return errors.Wrapf(errors.ErrConfigValidation,
				"local.git.branches[%d] %q is a semantic version and would collide with tag releases", i, b)
		}
	}
	return nil
}

func validateRemote(cfg *RemoteGitConfig) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return errors.Wrap(errors.ErrConfigValidation, "remote.git.url must not be empty")
	}
	if strings.TrimSpace(cfg.Branch) == "" {
		return errors.Wrap(errors.ErrConfigValidation, "remote.git.branch must not be empty")
	}
	if cfg.Author.Name == "" || cfg.Author.Email == "" {
		return errors.Wrap(errors.ErrConfigValidation, "remote.git.author name and email must not be empty")
	}
	return nil
}
