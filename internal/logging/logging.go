package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type Config struct {
	Level  string
	Format string // "console" or "json"
	File   string // optional; logs are written to both the sink and the file
}

// New builds a logger writing to w (usually os.Stderr). The returned closer
// releases the log file, if any.
func New(cfg Config, w io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var sink io.Writer = w
	if strings.EqualFold(cfg.Format, "console") || cfg.Format == "" {
		sink = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
		}
		// Files always get JSON lines.
		sink = zerolog.MultiLevelWriter(sink, f)
		closer = f
	}

	logger := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// ParseLevel maps a level name onto zerolog. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
