package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// Env is "dev" (default) or "prod".
	Env string

	// DemoMode seeds the fixed sample accounts and posts when the users table
	// is empty. Set DEMO_MODE=true.
	DemoMode bool

	// ScraperCron, when set, runs the harvest simulation on a cron schedule
	// (e.g. "@hourly"). Empty disables scheduled runs.
	ScraperCron string

	// ScraperStepDelay is the artificial per-step "processing" delay of the
	// harvest simulation. Set via SCRAPER_STEP_DELAY_MS (default 2000).
	ScraperStepDelay time.Duration

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is set via CORS_ALLOWED_ORIGINS (comma-separated).
	// When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "leakshare"),
		DBUser: getEnv("DB_USER", "leakshare"),
		DBPass: getEnv("DB_PASS", "leakshare"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:      getEnv("JWT_SECRET", "dev-key-for-demo-only"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		Env:            getEnv("ENV", "dev"),

		DemoMode:    getEnvBool("DEMO_MODE", false),
		ScraperCron: getEnv("SCRAPER_CRON", ""),
		ScraperStepDelay: time.Duration(getEnvInt("SCRAPER_STEP_DELAY_MS", 2000)) *
			time.Millisecond,

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
