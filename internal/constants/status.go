package constants

// PublishStage is a state of the publish pipeline.
// Stage values use snake_case for JSON serialization compatibility.
type PublishStage string

// Publish stage constants. Stages are entered strictly in this order:
//
//	Resolving → Staging → Cloning → Writing → Diffing → LatestUpdate → Committing → Pushing → Done
//
// Resolving and Diffing may also end the pipeline in Done (not required,
// no changes). Any stage after Resolving may end in Failed.
const (
	// StageResolving decides whether the CI build is a release.
	StageResolving PublishStage = "resolving"

	// StageStaging acquires the scoped temporary directory.
	StageStaging PublishStage = "staging"

	// StageCloning clones the target branch into the temporary directory.
	StageCloning PublishStage = "cloning"

	// StageWriting copies artifacts into builds/<versionId> and stages them.
	StageWriting PublishStage = "writing"

	// StageDiffing checks for pending changes against the last commit.
	StageDiffing PublishStage = "diffing"

	// StageLatestUpdate repoints builds/latest at the highest release.
	StageLatestUpdate PublishStage = "latest_update"

	// StageCommitting writes the release commit.
	StageCommitting PublishStage = "committing"

	// StagePushing pushes the release commit to the remote.
	StagePushing PublishStage = "pushing"

	// StageDone is the terminal success state, including no-ops.
	StageDone PublishStage = "done"

	// StageFailed is the terminal failure state.
	StageFailed PublishStage = "failed"
)

// String returns the string representation of the PublishStage.
func (s PublishStage) String() string {
	return string(s)
}
