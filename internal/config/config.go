// Package config provides the release configuration for git-deploy.
//
// A configuration is a JSON document describing the local artifact directory
// and the target repository:
//
//	{
//	  "local":  {"path": "dist", "git": {"tags": true, "branches": ["master"]}},
//	  "remote": {"git": {"url": "git@example.com:org/builds.git", "branch": "gh-pages",
//	             "author": {"name": "Bot", "email": "bot@example.com"}}}
//	}
//
// String values may reference the environment with ${VAR} or ${VAR:-default}.
// Loading interpolates, validates against the embedded JSON schema and then
// applies semantic checks. A loaded Config is never mutated afterwards.
//
// IMPORTANT: This package may import internal/constants, internal/errors and
// internal/version, but MUST NOT import other internal packages.
package config

// Config is the root configuration structure.
type Config struct {
	// Local describes the build artifacts and which CI events release them.
	Local LocalConfig `json:"local" mapstructure:"local"`

	// Remote describes the repository releases are published into.
	Remote RemoteConfig `json:"remote" mapstructure:"remote"`
}

// LocalConfig describes the build artifact directory.
type LocalConfig struct {
	// Path is the artifact directory. Absolute, "~"-prefixed or relative to
	// the invocation directory.
	Path string `json:"path" mapstructure:"path"`

	// Git controls which CI events trigger a release.
	Git LocalGitConfig `json:"git" mapstructure:"git"`
}

// LocalGitConfig controls tag and branch triggered releases.
type LocalGitConfig struct {
	// Tags enables releases for tag builds.
	Tags bool `json:"tags" mapstructure:"tags"`

	// Branches lists branches whose builds are released under the branch name.
	// An empty list disables branch releases. No entry may be a semantic version.
	Branches []string `json:"branches" mapstructure:"branches"`
}

// RemoteConfig describes the target repository.
type RemoteConfig struct {
	Git RemoteGitConfig `json:"git" mapstructure:"git"`
}

// RemoteGitConfig is the target repository location and commit identity.
type RemoteGitConfig struct {
	// URL is the clone and push URL of the target repository.
	URL string `json:"url" mapstructure:"url"`

	// Branch is the branch releases are committed to.
	Branch string `json:"branch" mapstructure:"branch"`

	// Author is used as both author and committer of release commits.
	Author Author `json:"author" mapstructure:"author"`
}

// Author is a commit identity.
type Author struct {
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
}

// BranchReleasesEnabled reports whether any branch is eligible for release.
func (c *Config) BranchReleasesEnabled() bool {
	return len(c.Local.Git.Branches) > 0
}

// IsReleaseBranch reports whether branch is in the configured allow-list.
func (c *Config) IsReleaseBranch(branch string) bool {
	for _, b := range c.Local.Git.Branches {
		if b == branch {
			return true
		}
	}
	return false
}
