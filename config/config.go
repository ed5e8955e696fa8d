// File: /config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Redis backs the aggregate cache and nudge dismissals
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	DigestIntervalMinutes int
	RateLimitPerMinute    int
	RateLimitBurst        int

	// Engine tuning
	UrgencyKmPerDay          int
	AnomalyWindow            int
	AnomalyMaxFlags          int
	AnomalyCostFactor        float64
	AnomalyConsumptionFactor float64
	Timezone                 string
}

func Load() *Config {
	// A missing .env file is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] could not read .env: %v", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/fueltrack?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     getEnvInt("SMTP_PORT", 2525),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@fueltrack.app"),
		FromName:     getEnv("FROM_NAME", "FuelTrack"),

		DigestIntervalMinutes: getEnvInt("DIGEST_INTERVAL_MINUTES", 24*60),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:        getEnvInt("RATE_LIMIT_BURST", 20),

		UrgencyKmPerDay:          getEnvInt("URGENCY_KM_PER_DAY", 100),
		AnomalyWindow:            getEnvInt("ANOMALY_WINDOW", 10),
		AnomalyMaxFlags:          getEnvInt("ANOMALY_MAX_FLAGS", 3),
		AnomalyCostFactor:        getEnvFloat("ANOMALY_COST_FACTOR", 2.0),
		AnomalyConsumptionFactor: getEnvFloat("ANOMALY_CONSUMPTION_FACTOR", 1.5),
		Timezone:                 getEnv("TIMEZONE", "Local"),
	}
}

// Location resolves Timezone, falling back to the server's local zone
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[Config] unknown timezone %q, using local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) DigestInterval() time.Duration {
	return time.Duration(c.DigestIntervalMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[Config] %s=%q is not an integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[Config] %s=%q is not a number, using %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}
