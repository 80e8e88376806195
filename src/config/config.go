package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Upload settings
	MaxUploadSizeBytes int64
	SanitizeOutput     bool

	// HTTP edge settings
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	// Result cache
	ResultCacheTTL time.Duration

	// Background jobs
	InboxDir          string
	RetentionDays     int
	RetentionSchedule string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// Default returns the configuration used when no environment is set.
func Default() *AppConfig {
	return &AppConfig{
		Port:               "8080",
		DatabasePath:       "./pricedash.db",
		LogLevel:           "info",
		MaxUploadSizeBytes: 10 * 1024 * 1024,
		SanitizeOutput:     true,
		AllowedOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:       10,
		RateLimitBurst:     30,
		ResultCacheTTL:     15 * time.Minute,
		InboxDir:           "",
		RetentionDays:      30,
		RetentionSchedule:  "@daily",
	}
}

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	// Try the current directory first, then the parent (running from a subdirectory).
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = FromEnv()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, InboxDir=%q, RetentionDays=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.InboxDir, Cfg.RetentionDays)
}

// FromEnv builds an AppConfig from the process environment over Default().
func FromEnv() *AppConfig {
	d := Default()
	return &AppConfig{
		Port:         getEnv("PORT", d.Port),
		DatabasePath: getEnv("DATABASE_PATH", d.DatabasePath),
		LogLevel:     getEnv("LOG_LEVEL", d.LogLevel),

		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", d.MaxUploadSizeBytes),
		SanitizeOutput:     getEnvAsBool("SANITIZE_OUTPUT", d.SanitizeOutput),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", d.AllowedOrigins),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", d.RateLimitRPS),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", d.RateLimitBurst),

		ResultCacheTTL: getEnvAsDuration("RESULT_CACHE_TTL", d.ResultCacheTTL),

		InboxDir:          getEnv("INBOX_DIR", d.InboxDir),
		RetentionDays:     getEnvAsInt("RETENTION_DAYS", d.RetentionDays),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", d.RetentionSchedule),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid number value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList parses a comma-separated list, trimming each entry.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
