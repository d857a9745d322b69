package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL    string
	DatabaseDriver string // postgres (default) or mysql
	Port           string

	CatastroTimeout time.Duration

	StaticDir      string
	AllowedOrigins []string
	MaxUploadMB    int64

	LogLevel  string
	LogFormat string // console or json
}

// LoadConfig reads configuration from environment variables (.env file)
func LoadConfig() (*Config, error) {
	// Load .env file. In production, env variables are often set directly.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DatabaseDriver:  strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		Port:            getEnv("PORT", "5000"),
		CatastroTimeout: getDuration("CATASTRO_TIMEOUT", 20*time.Second),
		StaticDir:       getEnv("STATIC_DIR", "web"),
		AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxUploadMB:     getInt64("MAX_UPLOAD_MB", 32),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}, nil
}

// Helper function to get env var or return default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("15s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
