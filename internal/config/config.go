package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port     int
	LogLevel string
	Env      string
	DB       DBConfig
	Remote   RemoteConfig
	WhatsApp WhatsAppConfig

	// StrictStatusFlow rejects backward status transitions when enabled.
	// Default keeps the permissive behavior: any of the six valid statuses
	// is accepted as a direct jump.
	StrictStatusFlow bool
}

// DBConfig holds the local SQLite store configuration
type DBConfig struct {
	Path string
}

// RemoteConfig holds the hosted backend connection settings
type RemoteConfig struct {
	URL string
	Key string
}

// WhatsAppConfig holds the notification recipient settings
type WhatsAppConfig struct {
	PhoneNumber string
}

// getEnv retrieves the value of an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

// Load reads the configuration from environment variables and returns a Config struct.
// Remote store and WhatsApp settings may be absent here; the components that
// need them fail at construction instead of the whole process.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))

	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	strict, err := strconv.ParseBool(getEnv("STRICT_STATUS_FLOW", "false"))

	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_STATUS_FLOW: %w", err)
	}

	return &Config{
		Port:     port,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Env:      getEnv("APP_ENV", "development"),
		DB: DBConfig{
			Path: getEnv("DB_PATH", "orders.db"),
		},
		Remote: RemoteConfig{
			URL: getEnv("SUPABASE_URL", ""),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		WhatsApp: WhatsAppConfig{
			PhoneNumber: getEnv("WHATSAPP_PHONE_NUMBER", ""),
		},
		StrictStatusFlow: strict,
	}, nil
}
