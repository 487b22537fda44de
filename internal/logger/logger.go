// Package logger holds the process-wide structured logger.
//
// The logger is configured once at startup from the Log section of the
// configuration and fetched with Get wherever a component needs to log:
//
//	log := logger.Get()
//	log.Error().Err(err).Str("collection", "books").Msg("find failed")
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	global = newLogger(os.Stderr, zerolog.InfoLevel, "json")
)

func newLogger(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Configure replaces the process logger. Unknown levels fall back to info.
func Configure(level, format string) {
	ConfigureWriter(os.Stderr, level, format)
}

// ConfigureWriter is Configure with an explicit destination.
func ConfigureWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := newLogger(w, lvl, format)

	mu.Lock()
	global = l
	mu.Unlock()
}

// Get returns the process logger.
func Get() *zerolog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	return &l
}
