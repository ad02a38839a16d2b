// Package logging configures the zerolog logger shared by the server and the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger writing human readable lines in DEV and JSON everywhere else.
func New(env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if env == "DEV" {
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Init sets the global logger used by packages that log through github.com/rs/zerolog/log.
func Init(env string, w io.Writer) zerolog.Logger {
	logger := New(env, w)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}
