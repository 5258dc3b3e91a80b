package config

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mrz1836/git-deploy/internal/errors"
)

//go:embed schemas/config.json
var schemaJSON []byte

const schemaURL = "https://github.com/mrz1836/git-deploy/schemas/config.json"

//nolint:gochecknoglobals // compiled once on first use
var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	errSchema      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			errSchema = err
			return
		}
		compiledSchema, errSchema = c.Compile(schemaURL)
	})
	return compiledSchema, errSchema
}

// ValidateDocument checks a decoded JSON document against the config schema.
// Schema violations wrap ErrConfigValidation.
func ValidateDocument(doc any) error {
	sch, err := configSchema()
	if err != nil {
		return errors.Wrap(err, "failed to compile config schema")
	}
	if err := sch.Validate(doc); err != nil {
		return errors.Join(errors.ErrConfigValidation, err)
	}
	return nil
}
