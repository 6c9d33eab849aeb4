package contract

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	SetLogger(zerolog.Nop())
}

// Log returns the diagnostic logger for cache, ingest and store activity.
// It is muted until SetLogger installs a real sink.
func Log() *zerolog.Logger {
	return logger.Load()
}

// SetLogger replaces the diagnostic logger.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// NewDebugLogger returns a console logger at debug level that writes to w.
func NewDebugLogger(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: color.NoColor}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Logf writes a formatted debug message to the diagnostic logger.
func Logf(format string, v ...any) {
	Log().Debug().Msgf(format, v...)
}
