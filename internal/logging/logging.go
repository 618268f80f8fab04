// Package logging builds the leveled logger used by long-running commands.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New returns a timestamped logger writing to w at the given level
// ("debug", "info", "warn", "error"). An empty level means DefaultLevel.
func New(w io.Writer, level string) (*log.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "boardsync",
		Level:           parsed,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
