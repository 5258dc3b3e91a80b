package publish

import (
	"strings"

	"github.com/mrz1836/git-deploy/internal/constants"
)

// Error describes a failed publish run. Err wraps one of the internal/errors
// sentinels, so callers can classify it with errors.Is.
type Error struct {
	// Stage is the pipeline stage that failed.
	Stage constants.PublishStage
	// Op is the operation within the stage, e.g. "copy" or "push".
	Op string
	// Path is the file, directory or ref involved, if any.
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("publish ")
	b.WriteString(string(e.Stage))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
