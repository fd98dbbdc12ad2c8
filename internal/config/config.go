package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppEnv   string
	LogLevel string

	// Remote API
	APIBaseURL string
	APITimeout time.Duration

	// Sessions
	SessionBackend string // "redis" or "memory"
	SessionCookie  string
	SessionTTL     time.Duration
	CookieSecure   bool
	CSRFKey        string

	// Redis
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		APITimeout: getEnvDuration("API_TIMEOUT", 30*time.Second),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "redis")),
		SessionCookie:  getEnv("SESSION_COOKIE", "jiudi_session"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:   strings.ToLower(getEnv("COOKIE_SECURE", "false")) == "true",
		CSRFKey:        getEnv("CSRF_KEY", ""),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// IsProduction reports whether the console runs with production logging and cookies.
func (c AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
