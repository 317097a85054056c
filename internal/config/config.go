// Package config loads metatilectl settings from YAML.
//
// Lookup order for each setting: config file, then METATILE_* environment
// variable, then the built-in default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/metatilekit/internal/logger"
	"github.com/joshuapare/metatilekit/metatile/index"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "METATILE_CONFIG"

// Environment fallbacks.
const (
	EnvSearchStart = "METATILE_SEARCH_START"
	EnvMatcher     = "METATILE_MATCHER"
	EnvLogLevel    = "METATILE_LOG_LEVEL"
	EnvLogFormat   = "METATILE_LOG_FORMAT"
	EnvLogDir      = "METATILE_LOG_DIR"
	EnvMetricsAddr = "METATILE_METRICS_ADDR"
	EnvDebounce    = "METATILE_WATCH_DEBOUNCE"
)

// Defaults.
const (
	DefaultMatcher  = "linear"
	DefaultLevel    = "info"
	DefaultFormat   = "text"
	DefaultDebounce = 250 * time.Millisecond
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root configuration document.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// EngineConfig holds engine.Options values.
type EngineConfig struct {
	// SearchStart is the exclusive lower bound of the free-slot scan.
	// Nil means unset.
	SearchStart *int   `yaml:"search_start"`
	Matcher     string `yaml:"matcher"`
}

// LogConfig holds logger.Options values.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
}

// MetricsConfig configures the Prometheus endpoint of `metatilectl watch`.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// WatchConfig configures `metatilectl watch`.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a config with every setting resolved from the environment
// or the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyFallbacks()
	return cfg
}

// Load reads the YAML file at path.
// If path == "", it reads the path from METATILE_CONFIG, and returns Default()
// when that is unset too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document, applies fallbacks and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting names something the engine understands.
func (c *Config) Validate() error {
	if c.Engine.SearchStart != nil && *c.Engine.SearchStart < 0 {
		return fmt.Errorf("%w: engine.search_start must be >= 0, got %d", ErrInvalid, *c.Engine.SearchStart)
	}
	if _, err := index.ParseKind(c.Engine.Matcher); err != nil {
		return fmt.Errorf("%w: engine.matcher: %v", ErrInvalid, err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", ErrInvalid, err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must be >= 0, got %s", ErrInvalid, c.Watch.Debounce)
	}
	return nil
}

// SearchStartOr returns the configured search start, or def when unset.
func (c *Config) SearchStartOr(def int) int {
	if c.Engine.SearchStart == nil {
		return def
	}
	return *c.Engine.SearchStart
}

// applyFallbacks fills unset values: config -> env -> default.
func (c *Config) applyFallbacks() {
	if c.Engine.SearchStart == nil {
		if v, ok := envInt(EnvSearchStart); ok {
			c.Engine.SearchStart = &v
		}
	}
	c.Engine.Matcher = stringWithEnvFallback(c.Engine.Matcher, EnvMatcher, DefaultMatcher)
	c.Log.Level = stringWithEnvFallback(c.Log.Level, EnvLogLevel, DefaultLevel)
	c.Log.Format = stringWithEnvFallback(c.Log.Format, EnvLogFormat, DefaultFormat)
	c.Log.Dir = stringWithEnvFallback(c.Log.Dir, EnvLogDir, "")
	c.Metrics.Addr = stringWithEnvFallback(c.Metrics.Addr, EnvMetricsAddr, "")

	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
		if v := os.Getenv(EnvDebounce); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.Watch.Debounce = d
			}
		}
	}
}

func stringWithEnvFallback(value, envVar, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return def
}

func envInt(envVar string) (int, bool) {
	v := os.Getenv(envVar)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
