// Package logging configures the zerolog logger shared by the client.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/terminal"
)

// Config controls logger initialization.
type Config struct {
	Level    string    // "debug", "info", "warn", "error"
	FilePath string    // optional log file path
	Console  io.Writer // optional human-readable sink, nil disables it
	Fallback io.Writer // used like Console when FilePath cannot be opened and Console is nil
}

var (
	mu         sync.Mutex
	fileCloser io.Closer

	defaultTimeFmt = time.RFC3339
)

var (
	mkdirAllFn = os.MkdirAll
	openFileFn = os.OpenFile
	isTerminal = terminal.IsTerminal

	stderr io.Writer = os.Stderr
)

func init() {
	log.Logger = zerolog.New(io.Discard).With().Timestamp().Logger()
}

// Init configures zerolog globals and returns the resulting base logger.
// When the log file cannot be opened, output goes to Fallback and the error is
// logged at debug; without a Fallback the error is reported on stderr.
func Init(cfg Config) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	closePreviousLocked()

	zerolog.TimeFieldFormat = defaultTimeFmt
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var writers []io.Writer
	if cfg.Console != nil {
		writers = append(writers, newConsoleWriter(cfg.Console))
	}
	file, fileErr := openLogFile(cfg.FilePath)
	switch {
	case fileErr != nil && cfg.Fallback != nil:
		if cfg.Console == nil {
			writers = append(writers, newConsoleWriter(cfg.Fallback))
		}
	case fileErr != nil:
		_, _ = fmt.Fprintf(stderr, "logging: unable to configure file output: %v\n", fileErr)
	case file != nil:
		writers = append(writers, file)
		fileCloser = file
	}

	var writer io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = logger
	if fileErr != nil && cfg.Fallback != nil {
		logger.Debug().Err(fileErr).Msg("log file unavailable, logging to console")
	}
	return logger
}

// Shutdown closes the log file, if any.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	closePreviousLocked()
}

func closePreviousLocked() {
	if fileCloser == nil {
		return
	}
	if err := fileCloser.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "logging: unable to close log file: %v\n", err)
	}
	fileCloser = nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		_, _ = fmt.Fprintf(stderr, "logging: invalid level %q; using %q\n", level, "info")
		return zerolog.InfoLevel
	}
}

func newConsoleWriter(out io.Writer) io.Writer {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isTerminal(f)
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: defaultTimeFmt,
		NoColor:    noColor,
	}
}

// openLogFile opens path for appending, creating its directory.
// An empty path disables file logging.
func openLogFile(path string) (*os.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	path = filepath.Clean(path)
	if err := mkdirAllFn(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LogOpenFileFmt, path, err)
	}
	file, err := openFileFn(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf(messages.LogOpenFileFmt, path, err)
	}
	return file, nil
}
