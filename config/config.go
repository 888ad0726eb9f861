package config

import (
	"os"

	"faithfeed/utils"
)

// Config is read from the environment once in main and passed down by
// value; there are no process-level toggles anywhere else.
type Config struct {
	Port string

	DBUsername string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string

	RedisHost string
	RedisPort string

	// PrimaryEnabled switches the feed assembler's relational path off
	// entirely, leaving only the snapshot source.
	PrimaryEnabled bool
	FallbackWindow int

	IngestURL string

	RateLimitPerMinute int
	BlocksCacheMinutes int

	LogLevel string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "3333"),

		DBUsername: os.Getenv("DB_USERNAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "faithfeed"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		PrimaryEnabled: getEnv("FEED_PRIMARY_ENABLED", "true") != "false",
		FallbackWindow: utils.IntFromString(os.Getenv("FEED_FALLBACK_WINDOW"), 500),

		IngestURL: os.Getenv("INGEST_URL"),

		RateLimitPerMinute: utils.IntFromString(os.Getenv("RATE_LIMIT_PER_MINUTE"), 300),
		BlocksCacheMinutes: utils.IntFromString(os.Getenv("BLOCKS_CACHE_EXPIRATION_MINUTES"), 15),

		LogLevel: getEnv("LOG_LEVEL", "warning"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
