package publish

import (
	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/git"
	"github.com/mrz1836/git-deploy/internal/release"
)

// OutcomeKind classifies a successful publish run.
type OutcomeKind string

// Outcome kinds.
const (
	// NoOpNotRequired means the CI build is not a release. Nothing was touched.
	NoOpNotRequired OutcomeKind = "not_required"
	// NoOpNoChanges means the release content is already published.
	NoOpNoChanges OutcomeKind = "no_changes"
	// Published means a release commit was created and pushed.
	Published OutcomeKind = "published"
)

// Outcome is the result of a successful Publish.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// VersionID is the release directory name. Empty for NoOpNotRequired.
	VersionID string `json:"version_id,omitempty"`
	// Trigger is the CI signal the release was resolved from.
	Trigger release.Trigger `json:"trigger,omitempty"`
	// CommitID is set for Published.
	CommitID git.CommitID `json:"commit_id,omitempty"`
	// Latest is the release builds/latest points at after the run, if any.
	Latest string `json:"latest,omitempty"`
	// Files is the number of artifact files written.
	Files int `json:"files"`
	// Stages lists the pipeline stages the run went through.
	Stages []constants.PublishStage `json:"stages"`
}

// IsNoOp reports whether the run created no commit.
func (o *Outcome) IsNoOp() bool {
	return o.Kind != Published
}
