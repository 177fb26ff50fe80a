package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	AggregateLockWait  time.Duration
	OutboxPollInterval time.Duration
	PushBufferSize     int
	PushPingInterval   time.Duration

	EnableNotificationConsumer bool
	EnableOutboxRelay          bool
	EnableNotificationStream   bool
}

func Load() (Config, error) {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "chancery"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		AggregateLockWait:  envDuration("AGGREGATE_LOCK_WAIT", 3*time.Second),
		OutboxPollInterval: envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		PushBufferSize:     envInt("PUSH_BUFFER_SIZE", 64),
		PushPingInterval:   envDuration("PUSH_PING_INTERVAL", 30*time.Second),

		EnableNotificationConsumer: envBool("ENABLE_NOTIFICATION_CONSUMER", true),
		EnableOutboxRelay:          envBool("ENABLE_OUTBOX_RELAY", true),
		EnableNotificationStream:   envBool("ENABLE_NOTIFICATION_STREAM", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
