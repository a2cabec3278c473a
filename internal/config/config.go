package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is built once at startup and shared read-only by every component.
type Config struct {
	AppEnv              string `koanf:"app_env"`
	LogLevelName        string `koanf:"log_level"`
	ApiServicePort      string `koanf:"api_service_port"`
	ApiGrpcPort         string `koanf:"api_grpc_port"`
	ApiVersion          string `koanf:"api_version"`
	PostgreSQLHost      string `koanf:"postgresql_host"`
	PostgreSQLPort      int64  `koanf:"postgresql_port"`
	PostgreSQLUser      string `koanf:"postgresql_user"`
	PostgreSQLPassword  string `koanf:"postgresql_password"`
	PostgreSQLDatabase  string `koanf:"postgresql_database"`
	DatabaseMaxRetries  int64  `koanf:"database_max_retries"`
	JWTSecret           string `koanf:"jwt_secret"`
	TokenExpiration     int64  `koanf:"token_expiration"` // seconds
	BcryptCost          int    `koanf:"bcrypt_cost"`
	CookieExpireDays    int64  `koanf:"cookie_expire_days"`
	RedisHost           string `koanf:"redis_host"`
	RedisPort           int64  `koanf:"redis_port"`
	RedisPassword       string `koanf:"redis_password"`
	RedisDB             int64  `koanf:"redis_database"`
	BookCacheTTL        int64  `koanf:"book_cache_ttl"` // seconds
	LoginMaxAttempts    int64  `koanf:"login_max_attempts"`
	LoginWindow         int64  `koanf:"login_window"`          // seconds
	HealthCheckInterval int64  `koanf:"health_check_interval"` // seconds
	ShutdownTimeout     int64  `koanf:"shutdown_timeout"`      // seconds

	LogLevel slog.Level `koanf:"-"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv:              "development",
		LogLevelName:        "INFO",
		ApiServicePort:      "8080",
		ApiGrpcPort:         "50052",
		ApiVersion:          "v1",
		PostgreSQLHost:      "db",
		PostgreSQLPort:      5432,
		PostgreSQLUser:      "bookreview_user",
		PostgreSQLPassword:  "bookreview_password",
		PostgreSQLDatabase:  "bookreview_db",
		DatabaseMaxRetries:  30,
		JWTSecret:           "bookreview_secret",
		TokenExpiration:     86400, // 24 hours
		BcryptCost:          10,
		CookieExpireDays:    1,
		RedisHost:           "redis",
		RedisPort:           6379,
		RedisPassword:       "",
		RedisDB:             0,
		BookCacheTTL:        300,
		LoginMaxAttempts:    5,
		LoginWindow:         900,
		HealthCheckInterval: 15,
		ShutdownTimeout:     10,
	}
}

// LoadConfig layers defaults, an optional YAML file and environment variables,
// in that order of precedence.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// API_SERVICE_PORT -> api_service_port
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects values that would make the auth layer unsafe or unusable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if strings.ToLower(c.AppEnv) == "production" && c.JWTSecret == defaultConfig().JWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("TOKEN_EXPIRATION must be positive, got %d", c.TokenExpiration)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.ApiVersion == "" {
		return fmt.Errorf("API_VERSION must not be empty")
	}
	return nil
}

// APIPrefix is the route prefix every endpoint is mounted under.
func (c *Config) APIPrefix() string {
	return "/api/" + c.ApiVersion
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
