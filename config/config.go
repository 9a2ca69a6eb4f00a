package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	IDStrategyCount     = "count"
	IDStrategyMonotonic = "monotonic"
)

type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Registry  RegistryConfig `yaml:"registry"`
	LogLevel  string         `yaml:"logLevel"`
	LogFormat string         `yaml:"logFormat"`
}

type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeout     int    `yaml:"readTimeout"`     // seconds
	WriteTimeout    int    `yaml:"writeTimeout"`    // seconds
	IdleTimeout     int    `yaml:"idleTimeout"`     // seconds
	ShutdownTimeout int    `yaml:"shutdownTimeout"` // seconds
	MaxConns        int    `yaml:"maxConns"`        // 0 means unlimited
	MaxBodyBytes    int64  `yaml:"maxBodyBytes"`
}

type RegistryConfig struct {
	Backend    string `yaml:"backend"`
	IDStrategy string `yaml:"idStrategy"`
}

// Load creates a new Config from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "127.0.0.1"),
			Port:            getEnvInt("PORT", 8080),
			ReadTimeout:     getEnvInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvInt("WRITE_TIMEOUT", 15),
			IdleTimeout:     getEnvInt("IDLE_TIMEOUT", 60),
			ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 30),
			MaxConns:        getEnvInt("MAX_CONNS", 0),
			MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 32<<10)),
		},
		Registry: RegistryConfig{
			Backend:    getEnv("REGISTRY_BACKEND", BackendMemory),
			IDStrategy: getEnv("ID_STRATEGY", IDStrategyCount),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// LoadFile overlays the YAML file at path on top of the environment config.
// Keys missing from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that enumerated settings hold known values
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes: %d", c.Server.MaxBodyBytes)
	}
	switch c.Registry.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown registry backend %q", c.Registry.Backend)
	}
	switch c.Registry.IDStrategy {
	case IDStrategyCount, IDStrategyMonotonic:
	default:
		return fmt.Errorf("unknown id strategy %q", c.Registry.IDStrategy)
	}
	return nil
}

// Addr returns the host:port the server binds to
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
