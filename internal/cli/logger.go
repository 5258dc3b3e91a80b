package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/git-deploy/internal/constants"
	"github.com/mrz1836/git-deploy/internal/logging"
)

// logFileWriter holds the --log-file writer so CloseLogFile can release it.
var (
	logFileWriter   io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup
	logFileWriterMu sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
)

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// LoggerOptions selects the level and destinations of the CLI logger.
type LoggerOptions struct {
	Verbose bool
	Quiet   bool
	// LogFile is an optional rotating log file path.
	LogFile string
	// RunID tags every entry of one invocation.
	RunID string
}

func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// InitLogger creates the CLI logger.
//
// Log levels are set as follows:
//   - Verbose: Debug level
//   - Quiet: Warn level
//   - default: Info level
//
// Output goes to stderr, as a console writer on a TTY without NO_COLOR and
// as JSON otherwise. With LogFile set, entries are also written to a
// rotating file with secrets redacted. A log file that cannot be opened is
// reported as an error alongside a console-only logger.
func InitLogger(opts LoggerOptions) (zerolog.Logger, error) {
	configureZerologGlobals()

	writer := selectOutput()

	var fileErr error
	if opts.LogFile != "" {
		fw, err := createLogFileWriter(opts.LogFile)
		if err != nil {
			fileErr = err
		} else {
			setLogFileWriter(fw)
			writer = zerolog.MultiLevelWriter(writer, fw)
		}
	}

	logger := buildLogger(opts, writer)
	setGlobalLogger(logger)
	return logger, fileErr
}

func buildLogger(opts LoggerOptions, w io.Writer) zerolog.Logger {
	ctx := zerolog.New(w).
		Level(selectLevel(opts.Verbose, opts.Quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().
		Timestamp()
	if opts.RunID != "" {
		ctx = ctx.Str("run_id", opts.RunID)
	}
	return ctx.Logger()
}

// setGlobalLogger points the zerolog/log package logger at the CLI logger.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

func setLogFileWriter(w io.WriteCloser) {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
	}
	logFileWriter = w
}

// CloseLogFile closes the --log-file writer if one was opened.
func CloseLogFile() {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput picks a console writer for interactive terminals and raw
// JSON for CI logs.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser redacts secrets before they reach the underlying file.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter opens a rotating log file at path, creating its
// directory when needed.
func createLogFileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
