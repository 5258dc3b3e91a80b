package tui

import (
	"io"
)

// Field is one labeled value in a command summary.
type Field struct {
	Key   string
	Value string
}

// Output provides methods for structured command output.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, if any.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Fields prints labeled values, aligned on TTYs.
	Fields(fields []Field)
	// JSON outputs a value as JSON.
	JSON(v any) error
}

// Output format names.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
