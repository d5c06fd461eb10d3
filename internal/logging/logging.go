// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes zerolog with a console writer and returns the root
// logger. The level comes from LOG_LEVEL when set; otherwise debug mode
// selects debug, everything else info.
func Setup(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// ForComponent returns a child logger tagged with the component name.
func ForComponent(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
