package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	StoragePath       string

	// Scheduling policy.
	BusinessHoursStart interval.TimeOfDay // inclusive start of bookable window
	BusinessHoursEnd   interval.TimeOfDay // exclusive end of bookable window
	SlotGranularity    int                // candidate slot step in minutes
	ScheduleLocation   *time.Location     // canonical timezone for all date comparisons
}

// BusinessHours returns the configured bookable window as an interval.
func (c *Config) BusinessHours() interval.Interval {
	return interval.Interval{Start: c.BusinessHoursStart, End: c.BusinessHoursEnd}
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Local storage path for patient document uploads
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data/uploads")

	// Appointment booking window (start inclusive, end exclusive)
	cfg.BusinessHoursStart, err = getEnvAsTimeOfDay("BUSINESS_HOURS_START", "08:00")
	if err != nil {
		return nil, err
	}
	cfg.BusinessHoursEnd, err = getEnvAsTimeOfDay("BUSINESS_HOURS_END", "17:00")
	if err != nil {
		return nil, err
	}
	if cfg.BusinessHoursEnd <= cfg.BusinessHoursStart {
		return nil, fmt.Errorf("BUSINESS_HOURS_END must be after BUSINESS_HOURS_START")
	}

	// Candidate slot step for availability enumeration (default: 30 minutes)
	cfg.SlotGranularity, err = getEnvAsInt("SLOT_GRANULARITY_MINUTES", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_GRANULARITY_MINUTES: %w", err)
	}
	if cfg.SlotGranularity <= 0 {
		return nil, fmt.Errorf("SLOT_GRANULARITY_MINUTES must be positive")
	}

	// Canonical timezone for "same day" and "in the past" comparisons.
	// All schedulers resolve dates in this zone (default: UTC).
	tzStr := getEnv("SCHEDULE_TZ", "UTC")
	loc, err := time.LoadLocation(tzStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TZ %q: %w", tzStr, err)
	}
	cfg.ScheduleLocation = loc

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsTimeOfDay retrieves an environment variable as an HH:MM time of day.
func getEnvAsTimeOfDay(key, defaultValue string) (interval.TimeOfDay, error) {
	valStr := getEnv(key, defaultValue)
	tod, err := interval.ParseTimeOfDay(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", key, err)
	}
	return tod, nil
}
