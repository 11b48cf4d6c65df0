// Package logger wraps the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// current is replaced on reconfiguration, never mutated in place.
var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	current.Store(&l)
}

// Init configures the global logger: console output in development,
// JSON everywhere else.
func Init(env string) {
	var w io.Writer
	if env == "development" || env == "dev" || env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(w).With().
		Timestamp().
		Str("service", "moodmatch-backend").
		Logger()
	current.Store(&l)
}

// SetOutput redirects the logger, used by tests to silence or capture output.
func SetOutput(w io.Writer) {
	l := current.Load().Output(w)
	current.Store(&l)
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return current.Load()
}

// WithRequestID returns a logger with a request_id field.
func WithRequestID(requestID string) zerolog.Logger {
	return current.Load().With().Str("request_id", requestID).Logger()
}
