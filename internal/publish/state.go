package publish

import "github.com/mrz1836/git-deploy/internal/constants"

// ValidTransitions defines the allowed stage transitions of one publish run.
// Format: from_stage -> []to_stages
//
//	Resolving → Staging, Done
//	Staging → Cloning
//	Cloning → Writing
//	Writing → Diffing
//	Diffing → LatestUpdate, Done
//	LatestUpdate → Committing
//	Committing → Pushing
//	Pushing → Done
//
// Every non-terminal stage may also move to Failed.
//
//nolint:gochecknoglobals // Exported for testing and read-only lookup table
var ValidTransitions = map[constants.PublishStage][]constants.PublishStage{
	constants.StageResolving:    {constants.StageStaging, constants.StageDone},
	constants.StageStaging:      {constants.StageCloning},
	constants.StageCloning:      {constants.StageWriting},
	constants.StageWriting:      {constants.StageDiffing},
	constants.StageDiffing:      {constants.StageLatestUpdate, constants.StageDone},
	constants.StageLatestUpdate: {constants.StageCommitting},
	constants.StageCommitting:   {constants.StagePushing},
	constants.StagePushing:      {constants.StageDone},
}

// IsValidTransition reports whether a run may move from one stage to another.
func IsValidTransition(from, to constants.PublishStage) bool {
	if IsTerminalStage(from) {
		return false
	}
	targets, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	if to == constants.StageFailed {
		return true
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminalStage reports whether no further transitions are allowed.
func IsTerminalStage(s constants.PublishStage) bool {
	return s == constants.StageDone || s == constants.StageFailed
}
