package config

import (
	"os"
	"testing"

	"github.com/msdrg/batchgroup/internal/codec"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "PORT", "GROUPER_DIR", "GROUPER_COMMAND", "WORK_DIR",
		"OUTPUT_MODE", "BATCH_SEPARATOR", "DELETE_INPUT_FILE", "DELETE_OUTPUT_FILE",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.GrouperCommand != "msgmce.bat" {
		t.Errorf("expected default grouper command msgmce.bat, got %s", cfg.GrouperCommand)
	}
	if cfg.OutputMode != "single-line" {
		t.Errorf("expected default output mode single-line, got %s", cfg.OutputMode)
	}
	if cfg.BatchSeparator != "none" {
		t.Errorf("expected default batch separator none, got %s", cfg.BatchSeparator)
	}
	if !cfg.DeleteInputFile || !cfg.DeleteOutputFile {
		t.Error("expected delete-on-completion defaults to be true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("BATCH_SEPARATOR", "newline")
	os.Setenv("OUTPUT_MODE", "formatted")
	defer os.Unsetenv("BATCH_SEPARATOR")
	defer os.Unsetenv("OUTPUT_MODE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sep, err := cfg.Separator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sep != codec.SeparatorNewline {
		t.Errorf("expected newline separator, got %v", sep)
	}
	if cfg.OutputMode != "formatted" {
		t.Errorf("expected formatted output mode, got %s", cfg.OutputMode)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{OutputMode: "single-line", BatchSeparator: "none", GrouperCommand: "msgmce.bat"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.BatchSeparator = "tab"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown separator")
	}

	cfg.BatchSeparator = "none"
	cfg.OutputMode = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown output mode")
	}

	cfg.OutputMode = "single-line"
	cfg.GrouperCommand = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty grouper command")
	}
}

func TestConfig_RequireGrouper(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireGrouper(); err == nil {
		t.Error("expected error when GROUPER_DIR is unset")
	}

	cfg.GrouperDir = t.TempDir()
	if err := cfg.RequireGrouper(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
