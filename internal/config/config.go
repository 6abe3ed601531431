// Package config loads the todolist configuration file.
//
// The file may be YAML (.yaml/.yml) or JSON. YAML is converted to JSON first
// so both formats go through the same strict decoder, which rejects unknown
// keys and trailing data.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"

	"github.com/Aishakabeer/todolist/internal/calendar"
)

const (
	DefaultDir             = ".todolist"
	DefaultPath            = DefaultDir + "/config.yaml"
	DefaultDBPath          = DefaultDir + "/todolist.db"
	DefaultSnapshotPath    = DefaultDir + "/snapshot.jsonl"
	DefaultAddr            = ":8000"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWeekStart       = "monday"
)

type Config struct {
	DBPath       string         `json:"db_path"`
	SnapshotPath string         `json:"snapshot_path"`
	AutoSnapshot bool           `json:"auto_snapshot"`
	Server       ServerConfig   `json:"server"`
	Calendar     CalendarConfig `json:"calendar"`
	Logging      LoggingConfig  `json:"logging"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
	// ShutdownTimeout is a Go duration string (e.g. "10s").
	ShutdownTimeout string `json:"shutdown_timeout"`
}

type CalendarConfig struct {
	// WeekStart is the first column of the month grid ("monday", "sun", ...).
	WeekStart string `json:"week_start"`
	// Timezone is an IANA zone name used to decide "today". Empty means the
	// server's local zone.
	Timezone string `json:"timezone"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = DefaultSnapshotPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout.String()
	}
	if c.Calendar.WeekStart == "" {
		c.Calendar.WeekStart = DefaultWeekStart
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Load reads the file at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(path, b)
}

// Parse decodes data; the format is chosen from the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	jb, format, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if len(bytes.TrimSpace(jb)) > 0 && string(bytes.TrimSpace(jb)) != "null" {
		dec := json.NewDecoder(bytes.NewReader(jb))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("invalid %s config %s: %w", format, path, err)
		}
		// reject trailing tokens (e.g. concatenated JSON)
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, fmt.Errorf("invalid config %s: trailing data", path)
			}
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.WeekStart(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// ShutdownTimeout resolves server.shutdown_timeout; empty or zero means
// DefaultShutdownTimeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parseDurationOrDefault("server.shutdown_timeout", c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

// WeekStart resolves calendar.week_start.
func (c *Config) WeekStart() (time.Weekday, error) {
	d, err := calendar.ParseWeekday(c.Calendar.WeekStart)
	if err != nil {
		return d, fmt.Errorf("calendar.week_start: %w", err)
	}
	return d, nil
}

// Location resolves calendar.timezone; nil means server local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	return loc, nil
}

// coerceToJSONBytes converts YAML config to JSON bytes so we can re-use the strict
// JSON decoder (DisallowUnknownFields) for both formats.
func coerceToJSONBytes(path string, data []byte) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, "json", nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, "yaml", fmt.Errorf("yaml unmarshal: %w", err)
	}

	v = normalizeYAML(v)

	j, err := json.Marshal(v)
	if err != nil {
		return nil, "yaml", fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, "yaml", nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	jb, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var generic map[string]any
	if err := json.Unmarshal(jb, &generic); err != nil {
		return err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
