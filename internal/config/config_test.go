package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	l := &FileLoader{path: filepath.Join(t.TempDir(), "absent.yaml"), lookup: envFrom(nil)}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.AWS.DefaultRegion != "us-east-1" {
		t.Errorf("DefaultRegion = %q; want us-east-1", cfg.AWS.DefaultRegion)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
aws:
  default_region: eu-west-1
  default_profile: audit
reactor:
  callback_url: https://reactor.example.com/cb
  timeout: 3s
logging:
  level: debug
  format: console
`)
	cfg, err := (&FileLoader{path: path, lookup: envFrom(nil)}).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AWS.DefaultRegion != "eu-west-1" || cfg.AWS.DefaultProfile != "audit" {
		t.Errorf("unexpected AWS config: %+v", cfg.AWS)
	}
	if cfg.Reactor.TimeoutDuration() != 3*time.Second {
		t.Errorf("TimeoutDuration = %v; want 3s", cfg.Reactor.TimeoutDuration())
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Format = %q; want console", cfg.Logging.Format)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")
	l := &FileLoader{path: path, lookup: envFrom(map[string]string{
		EnvLogLevel:   "warn",
		EnvRegion:     "ap-southeast-2",
		EnvReactorURL: "",
	})}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q; want warn (env wins)", cfg.Logging.Level)
	}
	if cfg.AWS.DefaultRegion != "ap-southeast-2" {
		t.Errorf("DefaultRegion = %q; want ap-southeast-2", cfg.AWS.DefaultRegion)
	}
	if cfg.Reactor.CallbackURL != "" {
		t.Errorf("empty env value must not override; got %q", cfg.Reactor.CallbackURL)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "logging: [unterminated\n")
	if _, err := (&FileLoader{path: path, lookup: envFrom(nil)}).Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"timeout", func(c *Config) { c.Reactor.Timeout = "soon" }, "reactor.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate error = %v; want mention of %q", err, tt.want)
			}
		})
	}
}

func TestTimeoutDuration_Fallback(t *testing.T) {
	for _, v := range []string{"", "bogus", "-1s"} {
		if got := (ReactorConfig{Timeout: v}).TimeoutDuration(); got != defaultReactorTimeout {
			t.Errorf("TimeoutDuration(%q) = %v; want %v", v, got, defaultReactorTimeout)
		}
	}
}
