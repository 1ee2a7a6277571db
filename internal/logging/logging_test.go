package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_LevelFiltering(t *testing.T) {
	logger, err := New("warn", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info must be suppressed at warn level")
	}
	if !logger.Core().Enabled(zap.WarnLevel) {
		t.Error("warn must be enabled at warn level")
	}
}

func TestNew_ConsoleDebug(t *testing.T) {
	logger, err := New("debug", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("debug must be enabled at debug level")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("OrNop must return a non-nil logger unchanged")
	}
}

func TestVersionField(t *testing.T) {
	f := VersionField()
	if f.Key != "version" || f.String == "" {
		t.Errorf("VersionField() = %+v; want non-empty version string", f)
	}
}
