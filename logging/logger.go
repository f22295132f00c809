package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
//
// Log level is controlled by NOTESYNC_LOG_LEVEL (default "info") and caller
// reporting by NOTESYNC_LOG_CALLER=true. Logs are written to
// .notesync/logs/<component>-<date>.log in the current working directory, and
// additionally to stderr when debugging or when stderr is not a terminal.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if os.Getenv("NOTESYNC_LOG_LEVEL") != "" {
		levelStr = os.Getenv("NOTESYNC_LOG_LEVEL")
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("NOTESYNC_LOG_CALLER") == "true" {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	if os.Getenv("NOTESYNC_LOG_FORMAT") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&TextFormatter{})
	}

	// Configure Output Sinks
	var writers []io.Writer

	// File sink: .notesync/logs/<component>-<date>.log next to the notebook,
	// falling back to the home directory when the cwd is unavailable.
	var logFilePath string
	cwd, err := os.Getwd()
	if err == nil {
		dateStr := time.Now().Format("2006-01-02")
		logFilePath = filepath.Join(cwd, ".notesync", "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
	} else {
		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			dateStr := time.Now().Format("2006-01-02")
			logFilePath = filepath.Join(home, ".notesync", "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
		}
	}

	if logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err == nil {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			}
		}
	}

	// Stderr sink: only when debugging, or when stderr is piped (e.g. CI).
	// This suppresses structured logs in normal interactive use.
	isDebug := os.Getenv("NOTESYNC_DEBUG") == "1" || logger.GetLevel() == logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !isInteractive {
		writers = append(writers, os.Stderr)
	}

	// Configure the output based on the number of writers
	if len(writers) == 0 {
		// Use io.Discard to suppress all output rather than defaulting to stderr
		logger.SetOutput(io.Discard)
	} else if len(writers) == 1 {
		logger.SetOutput(writers[0])
	} else {
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}
