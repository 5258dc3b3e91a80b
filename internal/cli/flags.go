package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/errors"
	"github.com/mrz1836/git-deploy/internal/tui"
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = tui.FormatText
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = tui.FormatJSON
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// LogFile, when set, also writes logs to a rotating file.
	LogFile string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "also write logs to this file (rotated)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper for environment variable
// support with the GIT_DEPLOY_ prefix (e.g. GIT_DEPLOY_OUTPUT,
// GIT_DEPLOY_LOG_FILE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root().PersistentFlags() finds root flags from a subcommand's hooks.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet", "log-file"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}

// resolveGlobalFlags copies the effective values, flags first and then
// environment, back into flags.
func resolveGlobalFlags(v *viper.Viper, flags *GlobalFlags) {
	flags.Output = v.GetString("output")
	flags.Verbose = v.GetBool("verbose")
	flags.Quiet = v.GetBool("quiet")
	flags.LogFile = v.GetString("log-file")
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the process exit code for err.
//
//   - nil: 0
//   - an errors.ExitCodeError: its code
//   - config file unreadable: 40
//   - config file not JSON: 41
//   - invalid flags or arguments: 2
//   - anything else: 3
func ExitCodeForError(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	if code, ok := errors.ExitCode(err); ok {
		return code
	}

	switch {
	case stderrors.Is(err, errors.ErrConfigLoad):
		return constants.ExitConfigLoad
	case stderrors.Is(err, errors.ErrConfigParse):
		return constants.ExitConfigParse
	case stderrors.Is(err, errors.ErrInvalidOutputFormat):
		return constants.ExitInvalidInput
	}

	// Cobra flag and argument validation errors.
	if isInvalidInputError(err.Error()) {
		return constants.ExitInvalidInput
	}

	return constants.ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts 1 arg(s)",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
