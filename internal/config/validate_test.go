package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/git-deploy/internal/errors"
)

func validConfig() *Config {
	return &Config{
		Local: LocalConfig{
			Path: "dist",
			Git:  LocalGitConfig{Tags: true, Branches: []string{"master"}},
		},
		Remote: RemoteConfig{Git: RemoteGitConfig{
			URL:    "git@example.com:org/builds.git",
			Branch: "gh-pages",
			Author: Author{Name: "Release Bot", Email: "bot@example.com"},
		}},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no branches", mutate: func(c *Config) { c.Local.Git.Branches = nil }},
		{
			name:    "empty path",
			mutate:  func(c *Config) { c.Local.Path = " " },
			wantErr: "local.path",
		},
		{
			name:    "semver branch",
			mutate:  func(c *Config) { c.Local.Git.Branches = []string{"master", "1.2.3"} },
			wantErr: "semantic version",
		},
		{
			name:    "v-prefixed semver branch",
			mutate:  func(c *Config) { c.Local.Git.Branches = []string{"v2.0.0"} },
			wantErr: "semantic version",
		},
		{
			name:    "reserved latest branch",
			mutate:  func(c *Config) { c.Local.Git.Branches = []string{"latest"} },
			wantErr: "reserved",
		},
		{
			name:    "empty branch",
			mutate:  func(c *Config) { c.Local.Git.Branches = []string{""} },
			wantErr: "branches[0]",
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Remote.Git.URL = "" },
			wantErr: "remote.git.url",
		},
		{
			name:    "missing remote branch",
			mutate:  func(c *Config) { c.Remote.Git.Branch = "" },
			wantErr: "remote.git.branch",
		},
		{
			name:    "missing author email",
			mutate:  func(c *Config) { c.Remote.Git.Author.Email = "" },
			wantErr: "author",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errors.ErrConfigValidation)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidateBranches_NonVersionNames(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateBranches([]string{"master", "release-1", "1.2", "v1"}))
}
