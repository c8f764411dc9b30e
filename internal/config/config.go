package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret string

	// RateLimitBackend selects "memory" (default, per-process) or "redis"
	// (shared window across instances).
	RateLimitBackend    string
	LoginMaxAttempts    int
	LoginWindow         time.Duration
	RegisterMaxAttempts int
	RegisterWindow      time.Duration

	AllowedOrigins []string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/finalexam?charset=utf8mb4&parseTime=True&loc=Local"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		RateLimitBackend:    getEnv("RATE_LIMIT_BACKEND", "memory"),
		LoginMaxAttempts:    getEnvInt("LOGIN_MAX_ATTEMPTS", 10),
		LoginWindow:         getEnvDuration("LOGIN_WINDOW", 15*time.Minute),
		RegisterMaxAttempts: getEnvInt("REGISTER_MAX_ATTEMPTS", 5),
		RegisterWindow:      getEnvDuration("REGISTER_WINDOW", time.Hour),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
