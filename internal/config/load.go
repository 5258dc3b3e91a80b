package config

import (
	"bytes"
	"context"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/mrz1836/git-deploy/internal/errors"
)

// Loader reads configuration files. The zero value is not usable; use
// NewLoader.
type Loader struct {
	fs     afero.Fs
	lookup LookupFunc
}

// NewLoader creates a Loader reading from fs and interpolating against lookup.
// A nil fs uses the OS filesystem and a nil lookup uses os.LookupEnv.
func NewLoader(fs afero.Fs, lookup LookupFunc) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Loader{fs: fs, lookup: lookup}
}

// Load reads the configuration at path from the OS filesystem, interpolating
// against the process environment.
func Load(ctx context.Context, path string) (*Config, error) {
	return NewLoader(nil, nil).Load(ctx, path)
}

// Load reads, interpolates, validates and decodes the configuration at path.
//
// Errors wrap ErrConfigLoad when the file cannot be read, ErrConfigParse when
// it is not valid JSON and ErrConfigValidation when it violates the schema or
// the semantic rules in Validate.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrConfigLoad, err), "loading %q", path)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrConfigParse, err), "parsing %q", path)
	}

	doc := interpolateTree(v.AllSettings(), l.lookup)
	if err := ValidateDocument(doc); err != nil {
		return nil, errors.Wrapf(err, "validating %q", path)
	}

	cfg, err := decode(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %q", path)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrapf(err, "validating %q", path)
	}

	logger.Debug().
		Str("local.path", cfg.Local.Path).
		Bool("local.git.tags", cfg.Local.Git.Tags).
		Strs("local.git.branches", cfg.Local.Git.Branches).
		Str("remote.git.branch", cfg.Remote.Git.Branch).
		Msg("configuration loaded")

	return cfg, nil
}

func decode(doc any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: false,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config decoder")
	}
	if err := dec.Decode(doc); err != nil {
		return nil, errors.Join(errors.ErrConfigValidation, err)
	}
	return &cfg, nil
}
