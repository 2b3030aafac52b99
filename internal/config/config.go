package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAlgorithm     = "HS256"
	defaultTokenMinutes  = 30
	defaultPort          = "8080"
	defaultMaxOpenConns  = 100
	defaultMaxIdleConns  = 10
	defaultConnLifetimeM = 60
)

// Config is built once at startup and handed to every component that needs
// it. Nothing reads the environment after Load returns.
type Config struct {
	Port     string
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	SecretKey   string
	Algorithm   string
	TokenExpiry time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads .env files (when present) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("loading %s: %w", f, err)
			}
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port: get("PORT", defaultPort),
		Database: DatabaseConfig{
			URL: get("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			SecretKey: get("SECRET_KEY", ""),
			Algorithm: strings.ToUpper(get("ALGORITHM", defaultAlgorithm)),
		},
		Log: LogConfig{
			Level:  strings.ToLower(get("LOG_LEVEL", "info")),
			Format: strings.ToLower(get("LOG_FORMAT", "json")),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(get("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.Auth.SecretKey == "" {
		return nil, errors.New("SECRET_KEY is required")
	}
	switch cfg.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported ALGORITHM %q", cfg.Auth.Algorithm)
	}

	minutes, err := positiveInt(get("ACCESS_TOKEN_EXPIRE_MINUTES", ""), defaultTokenMinutes)
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}
	cfg.Auth.TokenExpiry = time.Duration(minutes) * time.Minute

	if cfg.Database.MaxOpenConns, err = positiveInt(get("DB_MAX_OPEN_CONNS", ""), defaultMaxOpenConns); err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.Database.MaxIdleConns, err = positiveInt(get("DB_MAX_IDLE_CONNS", ""), defaultMaxIdleConns); err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}
	lifetime, err := positiveInt(get("DB_CONN_MAX_LIFETIME_MINUTES", ""), defaultConnLifetimeM)
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME_MINUTES: %w", err)
	}
	cfg.Database.ConnMaxLifetime = time.Duration(lifetime) * time.Minute

	return cfg, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
