// Package logging builds the zerolog logger of the wpfs command.
package logging

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// AppName names the state directory.
const AppName = "wpfs"

// Config defines the configuration for logger creation
type Config struct {
	// Writer, when set, receives the log instead of a file (tests).
	Writer io.Writer
	// File is the log path; empty means DefaultPath().
	File  string
	Level zerolog.Level
}

// DefaultPath is the rotating log file under the XDG state directory.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// ParseLevel maps a WPFS_LOG_LEVEL value to a level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

// New creates the logger and installs it as the zerolog global, which the
// drivers log through.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Writer
	if writer == nil {
		file := cfg.File
		if file == "" {
			file = DefaultPath()
		}
		writer = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Str("app", AppName).
		Logger().
		Level(cfg.Level)

	log.Logger = logger
	return logger
}
