// Package config holds the TOML configuration for the interest
// calculator's CLI and HTTP server. Everything has a sensible default so
// a config file is optional.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Reference ReferenceConfig `toml:"reference"`
	Ingest    IngestConfig    `toml:"ingest"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Metrics     bool   `toml:"metrics"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReferenceConfig points at the two reference data files.
type ReferenceConfig struct {
	RatesPath string `toml:"rates_path"`
	BandsPath string `toml:"bands_path"`
}

// IngestConfig sets ingestion defaults.
type IngestConfig struct {
	DefaultProfile string `toml:"default_profile"`
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	Level  string `toml:"level"`  // trace..panic, default info
	Format string `toml:"format"` // "text" or "json"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8317,
			Metrics:     true,
			MaxUploadMB: 16,
		},
		Reference: ReferenceConfig{
			RatesPath: "rates.csv",
			BandsPath: "bands.csv",
		},
		Ingest: IngestConfig{
			DefaultProfile: "clean",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply configures the global logrus logger from the logging section.
func (l LoggingConfig) Apply() {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if l.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
