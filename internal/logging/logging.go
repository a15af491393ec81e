// Package logging configures the application-wide zerolog logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the root logger. Production logs structured JSON to stdout;
// development gets the human-readable console writer.
func New(isProduction bool) zerolog.Logger {
	if isProduction {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	writer := zerolog.ConsoleWriter{Out: os.Stdout}
	return zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
