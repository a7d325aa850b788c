package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Port string
	Env  string

	StorageType string
	RedisURL    string
	RedisPass   string
	RedisDB     int

	JWTSecret string
	JWTTTL    time.Duration

	// DemoPasswords is the fixed set of passwords accepted by login.
	DemoPasswords []string

	SyncInterval time.Duration
	SyncDelay    time.Duration

	LogLevel slog.Level
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		StorageType:   getEnv("STORAGE_TYPE", StorageMemory),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DemoPasswords: splitList(getEnv("DEMO_PASSWORDS", "password,demo123")),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SyncInterval, err = getDuration("SYNC_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SyncDelay, err = getDuration("SYNC_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.StorageType {
	case StorageMemory, StorageRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be %q or %q", cfg.StorageType, StorageMemory, StorageRedis)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	if len(cfg.DemoPasswords) == 0 {
		return nil, fmt.Errorf("DEMO_PASSWORDS must list at least one password")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
