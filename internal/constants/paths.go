package constants

// Log file settings used when --log-file is given.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Environment variable prefix for global flag overrides (e.g. GIT_DEPLOY_VERBOSE).
const EnvPrefix = "GIT_DEPLOY"
