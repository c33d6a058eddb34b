package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Debounce  DebounceConfig  `yaml:"debounce"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig names the bridge subprocess that owns the org connection.
type BackendConfig struct {
	Command []string `yaml:"command"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DebounceConfig tunes the recomputation windows, in milliseconds.
type DebounceConfig struct {
	SearchMS   int `yaml:"search_ms"`
	ViewportMS int `yaml:"viewport_ms"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "metabrowse.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Debounce: DebounceConfig{
			SearchMS:   300,
			ViewportMS: 120,
		},
	}

	if path := os.Getenv("METABROWSE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("METABROWSE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if host := os.Getenv("METABROWSE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("METABROWSE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid METABROWSE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if command := os.Getenv("METABROWSE_BACKEND_COMMAND"); command != "" {
		cfg.Backend.Command = strings.Fields(command)
	}
	if dbPath := os.Getenv("METABROWSE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("METABROWSE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
