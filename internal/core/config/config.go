package config

import (
	"time"

	redisclient "github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Auth     AuthConfig         `yaml:"auth"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
	Settings SettingsConfig     `yaml:"settings"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int `yaml:"port"`
	GRPCPort int `yaml:"grpc_port"` // 0 = disabled
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// SettingsConfig selects the backing store for user preferences.
type SettingsConfig struct {
	Backend string `yaml:"backend"` // memory, file, redis
	Path    string `yaml:"path"`    // file backend only
}
