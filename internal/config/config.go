package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                string
	SearchDepth         int
	MaxCacheEntries     int
	AllowedOrigins      []string
	RedisURL            string
	RedisPassword       string
	RedisDB             int
	MoveCacheTTL        time.Duration
	SessionIdleTimeout  time.Duration
	CleanupInterval     time.Duration
	RelayReadTimeout    time.Duration
	RelayPingInterval   time.Duration
	ShutdownGracePeriod time.Duration
	LogLevel            string
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Engine
	searchDepth := GetEnvAsInt("SEARCH_DEPTH", 5)
	if searchDepth < 0 {
		log.Warn().Int("value", searchDepth).Msg("[CONFIG] SEARCH_DEPTH must not be negative, using 5")
		searchDepth = 5
	}
	maxCacheEntries := GetEnvAsInt("CACHE_MAX_ENTRIES", 1000000)

	// CORS: "*" keeps the move API open to any front end
	allowedOrigins := []string{}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", "*"), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Redis move cache, disabled when REDIS_URL is empty
	redisURL := GetEnv("REDIS_URL", "")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	redisDB := GetEnvAsInt("REDIS_DB", 0)
	moveCacheTTLMin := GetEnvAsInt("MOVE_CACHE_TTL_MINUTES", 60)

	// Sessions and relay
	sessionIdleMin := GetEnvAsInt("SESSION_IDLE_TIMEOUT_MINUTES", 30)
	cleanupIntervalMin := GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 5)
	relayReadTimeoutSec := GetEnvAsInt("RELAY_READ_TIMEOUT_SECONDS", 60)
	relayPingSec := GetEnvAsInt("RELAY_PING_INTERVAL_SECONDS", 30)
	shutdownSec := GetEnvAsInt("SHUTDOWN_GRACE_SECONDS", 30)

	AppConfig = &Config{
		Port:                port,
		SearchDepth:         searchDepth,
		MaxCacheEntries:     maxCacheEntries,
		AllowedOrigins:      allowedOrigins,
		RedisURL:            redisURL,
		RedisPassword:       redisPassword,
		RedisDB:             redisDB,
		MoveCacheTTL:        time.Duration(moveCacheTTLMin) * time.Minute,
		SessionIdleTimeout:  time.Duration(sessionIdleMin) * time.Minute,
		CleanupInterval:     time.Duration(cleanupIntervalMin) * time.Minute,
		RelayReadTimeout:    time.Duration(relayReadTimeoutSec) * time.Second,
		RelayPingInterval:   time.Duration(relayPingSec) * time.Second,
		ShutdownGracePeriod: time.Duration(shutdownSec) * time.Second,
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
	}

	return AppConfig
}

// OriginAllowed reports whether a browser origin may call the API.
func (c *Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
