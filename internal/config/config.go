package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the composition root needs.
type Config struct {
	AppPort       int
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	LogFile       string
}

// LoadConfig reads .env when present, then the environment. An empty
// REDIS_ADDR disables caching.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		AppPort:       envInt("APP_PORT", 3001),
		SQLitePath:    envStr("SQLITE_PATH", "backoffice.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      time.Duration(envInt("CACHE_TTL_MINUTES", 30)) * time.Minute,
		LogFile:       envStr("LOG_FILE", "app.log"),
	}, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
