// Package config loads tagtool settings from the environment.
//
// A .env file in the working directory is read first; variables already
// set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvLogLevel = "TAGTOOL_LOG_LEVEL"
	EnvLogFile  = "TAGTOOL_LOG_FILE"
	EnvWorkers  = "TAGTOOL_WORKERS"
	EnvOutput   = "TAGTOOL_OUTPUT"
	EnvBackup   = "TAGTOOL_BACKUP_SUFFIX"
)

// Config stores the CLI configuration.
type Config struct {
	LogLevel string // debug, info, warn, error
	LogFile  string // Rotated log file; empty disables file logging
	Workers  int    // Files read concurrently by scan
	Output   string // json or yaml
	Backup   string // Backup suffix for write; empty disables backups
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// Load reads configuration from the given .env files (".env" when none are
// named) and the process environment. Missing files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		LogLevel: getEnv(EnvLogLevel, "warn"),
		LogFile:  os.Getenv(EnvLogFile),
		Workers:  getEnvInt(EnvWorkers, runtime.NumCPU()),
		Output:   getEnv(EnvOutput, "json"),
		Backup:   os.Getenv(EnvBackup),
	}
	if cfg.Output != "json" && cfg.Output != "yaml" {
		return nil, fmt.Errorf("%s: unknown output format %q", EnvOutput, cfg.Output)
	}
	return cfg, nil
}
