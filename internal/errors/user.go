package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Actionable reads every user-facing message from here.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigLoad,
		info: ErrorInfo{
			Message: "The configuration file could not be read.",
			Action:  "Check that the config path exists and is readable.",
		},
	},
	{
		err: ErrConfigParse,
		info: ErrorInfo{
			Message: "The configuration file is not valid JSON.",
			Action:  "Fix the JSON syntax in the config file and retry.",
		},
	},
	{
		err: ErrConfigValidation,
		info: ErrorInfo{
			Message: "The configuration is invalid.",
			Action:  "Check local.git.branches and remote.git settings; branch names must not be semantic versions.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Pass a valid JSON config file path to the command.",
		},
	},

	// ===================
	// Publishing
	// ===================
	{
		err: ErrTimeout,
		info: ErrorInfo{
			Message: "The push did not finish before the deadline.",
			Action:  "Raise --timeout or check connectivity to the target repository.",
		},
	},
	{
		err: ErrAuthentication,
		info: ErrorInfo{
			Message: "Could not authenticate against the target repository.",
			Action:  "Ensure an ssh-agent is running with a key that has push access (SSH_AUTH_SOCK).",
		},
	},
	{
		err: ErrRemoteUnreachable,
		info: ErrorInfo{
			Message: "The target repository could not be reached.",
			Action:  "Check network access and the host in remote.git.url, then re-run the job.",
		},
	},
	{
		err: ErrPushRejected,
		info: ErrorInfo{
			Message: "The target repository rejected the push because its branch moved.",
			Action:  "Another job published to remote.git.branch concurrently; serialize publishing jobs and re-run this one.",
		},
	},
	{
		err: ErrVersionControl,
		info: ErrorInfo{
			Message: "A git operation on the target repository failed.",
			Action:  "Check remote.git.url, remote.git.branch and network access, then re-run the job.",
		},
	},
	{
		err: ErrFilesystem,
		info: ErrorInfo{
			Message: "A filesystem operation failed while staging the release.",
			Action:  "Check that local.path exists and the temp directory is writable.",
		},
	},
	{
		err: ErrReleaseNotRequired,
		info: ErrorInfo{
			Message: "No release is required for the current CI context.",
		},
	},

	// ===================
	// CLI
	// ===================
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
// This is called once during package init for O(1) direct lookups.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	// Fast path: O(1) lookup for direct sentinel errors
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Slow path: errors.Is() for wrapped errors
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
