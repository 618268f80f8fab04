package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/boardsync/internal/export"
)

// Environment variables read by Load. SYNC_FILE and SYNC_INTERVAL keep the
// names the desktop shell passes to the sync agent.
const (
	EnvSyncFile = "SYNC_FILE"
	EnvInterval = "SYNC_INTERVAL"
	EnvLogLevel = "BOARDSYNC_LOG_LEVEL"
)

// DefaultIntervalMS is the poll interval in milliseconds.
const DefaultIntervalMS = 1500

// SyncDirName is the working directory for the queue and artifacts.
const SyncDirName = ".sync"

// Settings are the sync agent's tunables.
type Settings struct {
	SyncFile   string `yaml:"sync_file"`
	IntervalMS int    `yaml:"interval_ms"`
	Out        string `yaml:"out"`
	Summary    string `yaml:"summary"`
	WorkDir    string `yaml:"work_dir"`
	LogLevel   string `yaml:"log_level"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		IntervalMS: DefaultIntervalMS,
		Out:        export.DefaultLatestName,
		Summary:    export.DefaultSummaryName,
		LogLevel:   "info",
	}
}

// Load returns defaults overlaid with the config file at path (skipped
// when path is empty or missing) and then the environment.
func Load(path string) (Settings, error) {
	settings := Defaults()
	if path != "" {
		fromFile, err := ReadFile(path)
		if err != nil {
			return settings, err
		}
		settings = settings.Merge(fromFile)
	}
	return settings.Merge(FromEnv()), nil
}

// ReadFile parses a YAML config file. A missing file yields zero settings.
func ReadFile(path string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return settings, nil
}

// WriteFile stores settings as YAML, creating the directory if needed.
func WriteFile(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// FromEnv reads settings from the environment. An unparseable
// SYNC_INTERVAL is ignored.
func FromEnv() Settings {
	settings := Settings{
		SyncFile: os.Getenv(EnvSyncFile),
		LogLevel: os.Getenv(EnvLogLevel),
	}
	if ms, ok := ParseIntervalMS(os.Getenv(EnvInterval)); ok {
		settings.IntervalMS = ms
	}
	return settings
}

// Merge returns s with every non-zero field of override applied.
func (s Settings) Merge(override Settings) Settings {
	if override.SyncFile != "" {
		s.SyncFile = override.SyncFile
	}
	if override.IntervalMS > 0 {
		s.IntervalMS = override.IntervalMS
	}
	if override.Out != "" {
		s.Out = override.Out
	}
	if override.Summary != "" {
		s.Summary = override.Summary
	}
	if override.WorkDir != "" {
		s.WorkDir = override.WorkDir
	}
	if override.LogLevel != "" {
		s.LogLevel = override.LogLevel
	}
	return s
}

// ParseIntervalMS parses a positive millisecond count.
func ParseIntervalMS(value string) (int, bool) {
	ms, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || ms <= 0 {
		return 0, false
	}
	return ms, true
}

// Interval returns the poll interval, falling back to the default.
func (s Settings) Interval() time.Duration {
	if s.IntervalMS <= 0 {
		return DefaultIntervalMS * time.Millisecond
	}
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// SyncDir returns the absolute .sync directory under WorkDir (or the
// current directory when WorkDir is empty).
func (s Settings) SyncDir() (string, error) {
	base := s.WorkDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		base = wd
	}
	return filepath.Abs(filepath.Join(base, SyncDirName))
}

// Artifacts returns where derived files are written.
func (s Settings) Artifacts() (export.Artifacts, error) {
	dir, err := s.SyncDir()
	if err != nil {
		return export.Artifacts{}, err
	}
	return export.Artifacts{Dir: dir, LatestName: s.Out, SummaryName: s.Summary}, nil
}
