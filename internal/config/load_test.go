package config

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/git-deploy/internal/errors"
)

const validDocument = `{
  "local": {
    "path": "${DIST_DIR:-dist}",
    "git": {"tags": true, "branches": ["master"]}
  },
  "remote": {
    "git": {
      "url": "https://${DEPLOY_HOST}/org/builds.git",
      "branch": "gh-pages",
      "path": "ignored/extra/key",
      "author": {"name": "Release Bot", "email": "bot@example.com"}
    }
  }
}`

func newTestLoader(t *testing.T, files map[string]string, env map[string]string) *Loader {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return NewLoader(fs, mapLookup(env))
}

func TestLoader_Load_Valid(t *testing.T) {
	t.Parallel()

	l := newTestLoader(t,
		map[string]string{"/cfg/release.json": validDocument},
		map[string]string{"DEPLOY_HOST": "git.example.com"},
	)

	cfg, err := l.Load(context.Background(), "/cfg/release.json")
	require.NoError(t, err)

	assert.Equal(t, "dist", cfg.Local.Path)
	assert.True(t, cfg.Local.Git.Tags)
	assert.Equal(t, []string{"master"}, cfg.Local.Git.Branches)
	assert.Equal(t, "https://git.example.com/org/builds.git", cfg.Remote.Git.URL)
	assert.Equal(t, "gh-pages", cfg.Remote.Git.Branch)
	assert.Equal(t, Author{Name: "Release Bot", Email: "bot@example.com"}, cfg.Remote.Git.Author)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		path    string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    "/cfg/absent.json",
			wantErr: errors.ErrConfigLoad,
		},
		{
			name:    "malformed json",
			body:    `{"local": {`,
			wantErr: errors.ErrConfigParse,
		},
		{
			name: "missing remote",
			body: `{"local": {"path": "dist", "git": {"tags": true, "branches": []}}}`,
			wantErr: errors.ErrConfigValidation,
		},
		{
			name: "tags not boolean",
			body: `{"local": {"path": "dist", "git": {"tags": "yes", "branches": []}},
			        "remote": {"git": {"url": "u", "branch": "b", "author": {"name": "n", "email": "e"}}}}`,
			wantErr: errors.ErrConfigValidation,
		},
		{
			name: "semver branch",
			body: `{"local": {"path": "dist", "git": {"tags": true, "branches": ["1.0.0"]}},
			        "remote": {"git": {"url": "u", "branch": "b", "author": {"name": "n", "email": "e"}}}}`,
			wantErr: errors.ErrConfigValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			files := map[string]string{}
			path := tc.path
			if path == "" {
				path = "/cfg/release.json"
				files[path] = tc.body
			}

			_, err := newTestLoader(t, files, nil).Load(context.Background(), path)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoader_Load_ParseIsNotLoadError(t *testing.T) {
	t.Parallel()

	l := newTestLoader(t, map[string]string{"/c.json": "not json"}, nil)

	_, err := l.Load(context.Background(), "/c.json")
	require.ErrorIs(t, err, errors.ErrConfigParse)
	assert.NotErrorIs(t, err, errors.ErrConfigLoad)
}
