// Package logging points the global zerolog logger at a file, since the
// terminal belongs to the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const FileName = "debug.log"

// Setup sends all logging to path. debug enables debug level, otherwise info
// and above is kept. The returned closer flushes the file.
func Setup(path string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()

	log.Debug().Str("path", path).Msg("Logging initialized")
	return f, nil
}

// Discard silences logging entirely.
func Discard() {
	log.Logger = zerolog.Nop()
}
