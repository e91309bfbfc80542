// Package config loads server configuration from environment variables,
// an optional .env file, and an optional JSON overrides file, in that
// precedence order (JSON overrides win, since it is loaded last and only
// fills in what it explicitly sets).
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	ServerPort    int
	TransportMode string
	LogLevel      string

	// SessionTimeout is how long a session may sit idle before the reaper
	// removes it. CleanupInterval is how often the reaper runs.
	SessionTimeout  time.Duration
	CleanupInterval time.Duration

	ConfigPath     string
	DisableLogging bool
}

// overrides is the subset of Config that may be supplied via the optional
// JSON config file; fields whose keys are absent from the file are left at
// their env/default value, while a key that is present overrides even when
// its value is zero or empty.
type overrides struct {
	ServerName      *string `json:"serverName"`
	ServerVersion   *string `json:"serverVersion"`
	ServerPort      *int    `json:"serverPort"`
	LogLevel        *string `json:"logLevel"`
	SessionTimeout  *string `json:"sessionTimeout"`
	CleanupInterval *string `json:"cleanupInterval"`
}

// LoadConfig loads configuration from the environment, an optional .env
// file, and an optional JSON overrides file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables only")
	} else {
		log.Printf("Loaded configuration from .env file")
	}

	port, _ := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	sessionTimeout, _ := time.ParseDuration(getEnv("SESSION_TIMEOUT", "24h"))
	cleanupInterval, _ := time.ParseDuration(getEnv("CLEANUP_INTERVAL", "5m"))

	configPath := getEnv("CONFIG_PATH", "config.json")
	if !filepath.IsAbs(configPath) {
		if absPath, err := filepath.Abs(configPath); err != nil {
			log.Printf("Warning: could not resolve absolute path for config file: %v", err)
		} else {
			configPath = absPath
		}
	}

	disableLogging := false
	if v := getEnv("DISABLE_LOGGING", "false"); v == "true" || v == "1" {
		disableLogging = true
	}

	cfg := &Config{
		ServerName:      getEnv("SERVER_NAME", "mcp-framework"),
		ServerVersion:   getEnv("SERVER_VERSION", "1.0.0"),
		ServerPort:      port,
		TransportMode:   getEnv("TRANSPORT_MODE", "http"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SessionTimeout:  sessionTimeout,
		CleanupInterval: cleanupInterval,
		ConfigPath:      configPath,
		DisableLogging:  disableLogging,
	}

	if _, err := os.Stat(cfg.ConfigPath); err == nil {
		if err := applyOverrides(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func applyOverrides(cfg *Config) error {
	log.Printf("Loading configuration overrides from: %s", cfg.ConfigPath)

	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cfg.ConfigPath, err)
	}

	var ov overrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", cfg.ConfigPath, err)
	}

	if ov.ServerName != nil {
		cfg.ServerName = *ov.ServerName
	}
	if ov.ServerVersion != nil {
		cfg.ServerVersion = *ov.ServerVersion
	}
	if ov.ServerPort != nil {
		cfg.ServerPort = *ov.ServerPort
	}
	if ov.LogLevel != nil {
		cfg.LogLevel = *ov.LogLevel
	}
	if ov.SessionTimeout != nil {
		d, err := time.ParseDuration(*ov.SessionTimeout)
		if err != nil {
			return fmt.Errorf("invalid sessionTimeout %q: %w", *ov.SessionTimeout, err)
		}
		cfg.SessionTimeout = d
	}
	if ov.CleanupInterval != nil {
		d, err := time.ParseDuration(*ov.CleanupInterval)
		if err != nil {
			return fmt.Errorf("invalid cleanupInterval %q: %w", *ov.CleanupInterval, err)
		}
		cfg.CleanupInterval = d
	}

	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
