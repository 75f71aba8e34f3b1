// Package logging sets up the structured zerolog logger shared by the CLI
// and the docs server.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures logger construction.
type Options struct {
	Level  string // debug, info, warn or error; anything else means info
	Pretty bool   // console writer for humans instead of JSON
	Output io.Writer
}

// New builds the service logger. Logs go to stderr by default so command
// output on stdout stays machine-readable.
func New(opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	switch opts.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	if opts.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "elixir-sense").
		Logger()
}
