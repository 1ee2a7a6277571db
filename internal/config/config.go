package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
// It is loaded from ~/.config/account-discovery/config.yaml when present and
// then overridden from the environment, which is how the Lambda handlers are
// configured.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"     json:"aws"`
	Reactor ReactorConfig `yaml:"reactor" json:"reactor"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// DefaultRegion is used when neither a flag nor the profile sets a region.
	DefaultRegion string `yaml:"default_region" json:"default_region"`

	// DefaultProfile is used when no --profile flag is provided.
	DefaultProfile string `yaml:"default_profile" json:"default_profile"`
}

// ReactorConfig configures delivery of account-link messages.
type ReactorConfig struct {
	// CallbackURL overrides the ReactorCallbackUrl resource property.
	// Empty means use the property.
	CallbackURL string `yaml:"callback_url" json:"callback_url"`

	// Timeout bounds a single POST, as a Go duration string ("10s").
	Timeout string `yaml:"timeout" json:"timeout"`
}

// LoggingConfig selects the zap encoder and minimum level.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "json" (Lambda, default) or "console" (CLI).
	Format string `yaml:"format" json:"format"`
}

const defaultReactorTimeout = 10 * time.Second

// TimeoutDuration parses Reactor.Timeout. It returns the default timeout
// when the value is empty or unparseable.
func (c ReactorConfig) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return defaultReactorTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultReactorTimeout
	}
	return d
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		AWS:     AWSConfig{DefaultRegion: "us-east-1"},
		Reactor: ReactorConfig{Timeout: defaultReactorTimeout.String()},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Loader is the interface for reading Config.
type Loader interface {
	// Load reads, parses, and validates the configuration.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}

// FileLoader reads a YAML file and applies environment overrides.
// A missing file is not an error: defaults are used instead.
type FileLoader struct {
	path   string
	lookup func(string) (string, bool)
}

// NewFileLoader returns a loader for path that reads overrides from the
// process environment.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path, lookup: os.LookupEnv}
}

// NewDefaultLoader returns a loader for ~/.config/account-discovery/config.yaml.
// When the home directory cannot be resolved only defaults and environment
// overrides apply.
func NewDefaultLoader() *FileLoader {
	home, err := os.UserHomeDir()
	if err != nil {
		return NewFileLoader("")
	}
	return NewFileLoader(filepath.Join(home, ".config", "account-discovery", "config.yaml"))
}

// ConfigPath implements Loader.
func (l *FileLoader) ConfigPath() string { return l.path }

// Load implements Loader.
func (l *FileLoader) Load() (*Config, error) {
	cfg := Default()
	if l.path != "" {
		data, err := os.ReadFile(l.path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", l.path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}

	lookup := l.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	ApplyEnv(cfg, lookup)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables that override file values.
const (
	EnvLogLevel       = "DISCOVERY_LOG_LEVEL"
	EnvLogFormat      = "DISCOVERY_LOG_FORMAT"
	EnvRegion         = "DISCOVERY_REGION"
	EnvProfile        = "DISCOVERY_PROFILE"
	EnvReactorURL     = "REACTOR_CALLBACK_URL"
	EnvReactorTimeout = "REACTOR_TIMEOUT"
)

// ApplyEnv overrides cfg with any non-empty variable reported by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvLogLevel, &cfg.Logging.Level)
	set(EnvLogFormat, &cfg.Logging.Format)
	set(EnvRegion, &cfg.AWS.DefaultRegion)
	set(EnvProfile, &cfg.AWS.DefaultProfile)
	set(EnvReactorURL, &cfg.Reactor.CallbackURL)
	set(EnvReactorTimeout, &cfg.Reactor.Timeout)
}

// Validate reports the first invalid setting in cfg.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q: must be debug, info, warn, or error", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q: must be json or console", cfg.Logging.Format)
	}
	if cfg.Reactor.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Reactor.Timeout); err != nil {
			return fmt.Errorf("invalid reactor.timeout %q: %w", cfg.Reactor.Timeout, err)
		}
	}
	return nil
}
