// Package release decides whether a CI build is a release and under which
// version identifier it is published.
//
// Resolve is a pure function of the configuration and a ci.Context snapshot.
// Tags take precedence over branches: a tag build with tags enabled is either
// released under its normalized version or not released at all, it never
// falls through to branch matching.
package release

import (
	"github.com/mrz1836/git-deploy/internal/ci"
	"github.com/mrz1836/git-deploy/internal/config"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/version"
)

// Trigger names the CI signal a release was resolved from.
type Trigger string

// Trigger values.
const (
	TriggerNone   Trigger = ""
	TriggerTag    Trigger = "tag"
	TriggerBranch Trigger = "branch"
)

// Decision is the result of Resolve.
type Decision struct {
	// Required reports whether the build must be published.
	Required bool `json:"required"`
	// VersionID is the release directory name: a normalized semantic version
	// for tag releases, the literal branch name for branch releases.
	VersionID string `json:"version_id,omitempty"`
	// Trigger records which signal produced the decision.
	Trigger Trigger `json:"trigger,omitempty"`
}

// NotRequired is the decision for builds that are not releases.
func NotRequired() Decision {
	return Decision{}
}

// Required returns a decision to publish under versionID.
func Required(versionID string, trigger Trigger) Decision {
	return Decision{Required: true, VersionID: versionID, Trigger: trigger}
}

// Resolve decides whether the build described by ciCtx is a release.
//
// It fails only when the configuration breaks the branch namespace rule, in
// which case the error wraps ErrConfigValidation and no resolution happens.
func Resolve(cfg *config.Config, ciCtx ci.Context) (Decision, error) {
	if cfg == nil {
		return NotRequired(), errors.ErrConfigNil
	}
	if err := config.ValidateBranches(cfg.Local.Git.Branches); err != nil {
		return NotRequired(), err
	}

	if cfg.Local.Git.Tags && ciCtx.HasTag() {
		id, err := version.Normalize(ciCtx.Tag)
		if err != nil {
			// Tags outside the version scheme are not releases.
			return NotRequired(), nil
		}
		return Required(id, TriggerTag), nil
	}

	if ciCtx.HasBranch() && cfg.BranchReleasesEnabled() && cfg.IsReleaseBranch(ciCtx.Branch) {
		return Required(ciCtx.Branch, TriggerBranch), nil
	}

	return NotRequired(), nil
}
