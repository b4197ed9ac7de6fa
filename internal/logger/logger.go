// Package logger provides the zerolog bootstrap for organizador diagnostics.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var instance *zerolog.Logger

// Init configures the global logger.
// level is one of "debug", "info", "warn", "error"; anything else falls
// back to "info". When file is non-empty, log lines are written to both
// stderr and the file.
func Init(level string, file string) error {
	var lvl zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}
	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		out = io.MultiWriter(out, f)
	}

	l := log.Output(out).With().Timestamp().Logger().Level(lvl)
	instance = &l
	return nil
}

// Get returns the global logger. Before Init is called it returns a
// discard logger, which keeps library packages safe to use from tests.
func Get() *zerolog.Logger {
	if instance == nil {
		l := zerolog.New(io.Discard)
		instance = &l
	}
	return instance
}
