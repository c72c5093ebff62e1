// Package obs provides the structured logger shared by the loaders,
// datafactory, and CLI layers.
package obs

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
)

// Logger returns the shared logger for this process.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetOutput redirects the shared logger's writer, used by tests and by the
// CLI's --quiet flag.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum emitted level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(level)
}
