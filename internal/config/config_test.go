package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// unsetAll clears every variable Load reads for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogFile, EnvWorkers, EnvOutput, EnvBackup} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.LogFile != "" || cfg.Backup != "" {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	unsetAll(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "TAGTOOL_LOG_LEVEL=debug\nTAGTOOL_WORKERS=3\nTAGTOOL_OUTPUT=yaml\nTAGTOOL_BACKUP_SUFFIX=.bak\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// The process environment wins over the file
	t.Setenv(EnvWorkers, "5")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Workers != 5 {
		t.Errorf("Workers = %d, want 5", cfg.Workers)
	}
	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
	if cfg.Backup != ".bak" {
		t.Errorf("Backup = %q, want .bak", cfg.Backup)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad output", key: EnvOutput, val: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_BadWorkersFallsBack(t *testing.T) {
	unsetAll(t)
	t.Setenv(EnvWorkers, "zero")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want default", cfg.Workers)
	}
}
