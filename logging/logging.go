// Package logging builds the logrus loggers used across the cache.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name; unparsable values fall back to info.
	Level string
	// Format is "json" or "text" (default).
	Format string
	// Writer directs log output; defaults to os.Stderr when nil.
	Writer io.Writer
}

// New constructs a logrus logger from opts.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	if strings.EqualFold(opts.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	if opts.Writer != nil {
		logger.SetOutput(opts.Writer)
	} else {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
