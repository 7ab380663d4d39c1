package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SURVEY_PORT"`
		CORSOrigins []string `yaml:"cors_origins" env:"SURVEY_CORS_ORIGINS" envSeparator:","`
	} `yaml:"server"`
	Storage struct {
		// Driver is memory, sqlite or postgres.
		Driver string `yaml:"driver" env:"SURVEY_STORAGE_DRIVER"`
		DSN    string `yaml:"dsn" env:"SURVEY_STORAGE_DSN"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr" env:"SURVEY_REDIS_ADDR"`
		Password string `yaml:"password" env:"SURVEY_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"SURVEY_REDIS_DB"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Survey struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"survey"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"SURVEY_JWT_SECRET"`
		Issuer    string `yaml:"issuer"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level" env:"SURVEY_LOG_LEVEL"`
	} `yaml:"log"`
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults is the configuration used when no file is given.
func Defaults() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Storage.Driver = DriverMemory
	cfg.Redis.TTL = "30m"
	cfg.Survey.CacheTTL = "10m"
	cfg.Auth.Issuer = "survey-service"
	cfg.Auth.TokenTTL = "8h"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads YAML config from path on top of Defaults, then applies
// SURVEY_* environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
