package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger. Production emits JSON lines at info level;
// every other environment gets a colored console writer at debug level.
func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stdout)
}

func NewWithWriter(environment string, out io.Writer) zerolog.Logger {
	production := environment == "production"

	var w io.Writer = out
	if !production {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := zerolog.DebugLevel
	if production {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "civicpulse").
		Str("env", environment).
		Logger()
}
