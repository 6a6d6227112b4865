package config

import (
	"os"
	"strconv"
	"time"

	"evento/internal/cache"
	"evento/internal/database"
	"evento/internal/messaging"
	"evento/internal/search"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// How long after event start a ticket stays verifiable.
	TicketExpiry time.Duration

	// QR rendering: error-correction level (L, M, Q, H) and image size in px.
	QRLevel string
	QRSize  int

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
	Search   search.Config
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		TicketExpiry: time.Duration(getEnvInt("TICKET_EXPIRY_HOURS", 4)) * time.Hour,

		QRLevel: getEnv("QR_EC_LEVEL", "H"),
		QRSize:  getEnvInt("QR_SIZE_PX", 256),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "evento"),
			Password:           getEnv("DB_PASSWORD", "evento"),
			DBName:             getEnv("DB_NAME", "evento"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "evento"),
			ClientID:  getEnv("NATS_CLIENT_ID", "evento-api"),
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			AuthTTL:  time.Duration(getEnvInt("VALKEY_AUTH_TTL_SEC", 300)) * time.Second,
		},

		Search: search.Config{
			Addresses: getEnv("ELASTICSEARCH_URL", ""),
			Index:     getEnv("ELASTICSEARCH_EVENTS_INDEX", "events"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
