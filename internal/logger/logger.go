// Package logger sets up structured logging to a rotating file.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file written inside Config.Dir.
const FileName = "moodplan.log"

// Config holds logger configuration.
type Config struct {
	Debug bool
	Dir   string
}

// Init builds the application logger and installs it as the log package default.
// Normal runs only write warnings and errors to the file. Debug runs also
// write to stderr and include the caller.
func Init(cfg Config) (*log.Logger, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, FileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var w io.Writer = fileWriter
	level := log.WarnLevel
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, fileWriter)
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "moodplan",
	})
	log.SetDefault(l)
	return l, nil
}

// New returns a logger writing to w at debug level, for tests and tools.
func New(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  log.DebugLevel,
		Prefix: "moodplan",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
