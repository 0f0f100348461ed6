package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "listdemo.yaml"

// Config represents the optional listdemo.yaml configuration.
type Config struct {
	Version string     `yaml:"version,omitempty"`
	Feed    FeedConfig `yaml:"feed"`
	UI      UIConfig   `yaml:"ui"`
	Log     LogConfig  `yaml:"log"`
}

// FeedConfig shapes the simulated feed.
type FeedConfig struct {
	FirstPage   int     `yaml:"firstPage,omitempty"`
	PageSize    int     `yaml:"pageSize,omitempty"`
	Pages       int     `yaml:"pages,omitempty"`
	GroupEvery  int     `yaml:"groupEvery,omitempty"`
	Latency     string  `yaml:"latency,omitempty"`
	FailureRate float64 `yaml:"failureRate,omitempty"`
	Seed        uint64  `yaml:"seed,omitempty"`
}

// UIConfig contains list widget settings.
type UIConfig struct {
	Title     string `yaml:"title,omitempty"`
	Threshold int    `yaml:"threshold,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
}

// LogConfig contains log sink settings. An empty Filename keeps logs off
// the terminal while the list is shown.
type LogConfig struct {
	Level      string `yaml:"level,omitempty"`
	Format     string `yaml:"format,omitempty"`
	Filename   string `yaml:"filename,omitempty"`
	MaxSize    int    `yaml:"maxSize,omitempty"`
	MaxDays    int    `yaml:"maxDays,omitempty"`
	MaxBackups int    `yaml:"maxBackups,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Path        string
	FirstPage   int
	PageSize    int
	Pages       int
	GroupEvery  int
	Latency     time.Duration
	FailureRate float64
	Seed        uint64
	Title       string
	Threshold   int
	Timeout     time.Duration
	Log         LogConfig
	Level       zapcore.Level
}

// Defaults.
const (
	DefaultFirstPage = 30
	DefaultPageSize  = 5
	DefaultPages     = 8
	DefaultLatency   = 400 * time.Millisecond
	DefaultTimeout   = 5 * time.Second
	DefaultTitle     = "feed"
)

// LoadOptional reads listdemo.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve loads the configuration (path, or listdemo.yaml in dir when path
// is empty) and resolves defaults.
func Resolve(dir, path string) (*Resolved, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		path = filepath.Join(dir, FileName)
		cfg, err = LoadOptional(dir)
	}
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(path)
}

// Resolve validates cfg and fills in defaults. path is recorded for
// messages only.
func (cfg *Config) Resolve(path string) (*Resolved, error) {
	if err := validateVersion(cfg.Version); err != nil {
		return nil, err
	}

	r := &Resolved{
		Path:        path,
		FirstPage:   orDefault(cfg.Feed.FirstPage, DefaultFirstPage),
		PageSize:    orDefault(cfg.Feed.PageSize, DefaultPageSize),
		Pages:       orDefault(cfg.Feed.Pages, DefaultPages),
		GroupEvery:  cfg.Feed.GroupEvery,
		FailureRate: cfg.Feed.FailureRate,
		Seed:        cfg.Feed.Seed,
		Title:       strings.TrimSpace(cfg.UI.Title),
		Threshold:   cfg.UI.Threshold,
		Log:         cfg.Log,
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}

	var err error
	if r.Latency, err = parseDuration("feed.latency", cfg.Feed.Latency, DefaultLatency); err != nil {
		return nil, err
	}
	if r.Timeout, err = parseDuration("ui.timeout", cfg.UI.Timeout, DefaultTimeout); err != nil {
		return nil, err
	}

	level := strings.TrimSpace(cfg.Log.Level)
	if level == "" {
		level = "info"
	}
	if r.Level, err = zapcore.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return nil, fmt.Errorf("log.format must be console or json (got %q)", cfg.Log.Format)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks resolved values, which flags may have overridden.
func (r *Resolved) Validate() error {
	switch {
	case r.FirstPage < 0:
		return fmt.Errorf("feed.firstPage cannot be negative (got %d)", r.FirstPage)
	case r.PageSize < 1:
		return fmt.Errorf("feed.pageSize must be at least 1 (got %d)", r.PageSize)
	case r.Pages < 0:
		return fmt.Errorf("feed.pages cannot be negative (got %d)", r.Pages)
	case r.GroupEvery < 0:
		return fmt.Errorf("feed.groupEvery cannot be negative (got %d)", r.GroupEvery)
	case r.FailureRate < 0 || r.FailureRate > 1:
		return fmt.Errorf("feed.failureRate must be between 0 and 1 (got %v)", r.FailureRate)
	case r.Latency < 0:
		return fmt.Errorf("feed.latency cannot be negative (got %s)", r.Latency)
	case r.Threshold < 0:
		return fmt.Errorf("ui.threshold cannot be negative (got %d)", r.Threshold)
	}
	return nil
}

// validateVersion accepts an empty version or any v1 release.
func validateVersion(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version must be a semantic version (got %q)", v)
	}
	if major := semver.Major(v); major != "v1" {
		return fmt.Errorf("unsupported config version %s (this build reads v1)", major)
	}
	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
