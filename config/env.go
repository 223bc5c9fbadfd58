package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "TODO_APP_"

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(envPrefix + "STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv(envPrefix + "PLATFORM"); v != "" {
		cfg.Platform = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "KEYBOARD_DURATION_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sKEYBOARD_DURATION_MS=%q", ErrInvalidConfig, envPrefix, v)
		}
		cfg.KeyboardDurationMS = n
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	// NO_COLOR is honored whatever its value, see no-color.org.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
	if v := os.Getenv(envPrefix + "NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
	return nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
