package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	OTLP   OTLPConfig   `yaml:"otlp"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type OTLPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
	Environment string `yaml:"environment"`
}

type StoreConfig struct {
	// Driver is one of "memory", "postgres" or "redis".
	Driver   string        `yaml:"driver"`
	DSN      string        `yaml:"dsn"`
	MaxConns int32         `yaml:"maxConns"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	// Driver is one of "none", "memory" or "redis".
	Driver   string        `yaml:"driver"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"tokenSecret"`
	TokenTTL    time.Duration `yaml:"tokenTTL"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		OTLP: OTLPConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "stock-manager-api",
			Environment: "development",
		},
		Store: StoreConfig{
			Driver:   "memory",
			MaxConns: 10,
			Addr:     "localhost:6379",
			Prefix:   "stockmanager",
			Timeout:  5 * time.Second,
		},
		Cache: CacheConfig{
			Driver: "none",
			Addr:   "localhost:6379",
			TTL:    time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig layers configuration sources: defaults, the optional YAML file at
// path, a .env file in the working directory, then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the composition root cannot honour.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "redis":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("config: STORE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}

	if c.Auth.TokenSecret == "" {
		return errors.New("config: AUTH_TOKEN_SECRET is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.OTLP.Enabled = getEnvBool("OTEL_ENABLED", cfg.OTLP.Enabled)
	cfg.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLP.Endpoint)
	cfg.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTLP.ServiceName)
	cfg.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", cfg.OTLP.Environment)

	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnv("STORE_DSN", cfg.Store.DSN)
	cfg.Store.MaxConns = int32(getEnvInt("STORE_MAX_CONNS", int(cfg.Store.MaxConns)))
	cfg.Store.Addr = getEnv("STORE_REDIS_ADDR", cfg.Store.Addr)
	cfg.Store.Password = getEnv("STORE_REDIS_PASSWORD", cfg.Store.Password)
	cfg.Store.DB = getEnvInt("STORE_REDIS_DB", cfg.Store.DB)
	cfg.Store.Prefix = getEnv("STORE_PREFIX", cfg.Store.Prefix)
	cfg.Store.Timeout = getEnvDuration("STORE_TIMEOUT", cfg.Store.Timeout)

	cfg.Cache.Driver = getEnv("CACHE_DRIVER", cfg.Cache.Driver)
	cfg.Cache.Addr = getEnv("CACHE_REDIS_ADDR", cfg.Cache.Addr)
	cfg.Cache.Password = getEnv("CACHE_REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Cache.DB = getEnvInt("CACHE_REDIS_DB", cfg.Cache.DB)
	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", cfg.Cache.TTL)

	cfg.Auth.TokenSecret = getEnv("AUTH_TOKEN_SECRET", cfg.Auth.TokenSecret)
	cfg.Auth.TokenTTL = getEnvDuration("AUTH_TOKEN_TTL", cfg.Auth.TokenTTL)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
