// Package config provides configuration for the dispatcher.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the dispatcher configuration.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int

	// Database
	DatabaseURL string

	// Provider settings
	ProviderMode     string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioBaseURL    string

	// Dispatch defaults
	OriginNumber string
	NumRounds    int
	WaitBetween  time.Duration
	CallTimeout  time.Duration

	// Delivery status callbacks
	StatusCallbackURL string

	// Contact roster
	RosterPath string

	// Policy
	PolicyPath string

	// WebSocket feed
	WSPingInterval   time.Duration
	WSWriteTimeout   time.Duration
	WSReadTimeout    time.Duration
	WSMaxMessageSize int64

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		InternalPort:      getEnvInt("INTERNAL_PORT", 8081),
		DatabaseURL:       getEnv("DATABASE_URL", "file:dispatch.db?cache=shared&mode=rwc"),
		ProviderMode:      getEnv("PROVIDER_MODE", "MOCK"),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioBaseURL:     getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		OriginNumber:      getEnv("ORIGIN_NUMBER", ""),
		NumRounds:         getEnvInt("NUM_ROUNDS", 5),
		WaitBetween:       time.Duration(getEnvInt("WAIT_BETWEEN_ROUNDS_MS", 40000)) * time.Millisecond,
		CallTimeout:       time.Duration(getEnvInt("CALL_TIMEOUT_MS", 30000)) * time.Millisecond,
		StatusCallbackURL: getEnv("STATUS_CALLBACK_URL", ""),
		RosterPath:        getEnv("ROSTER_PATH", ""),
		PolicyPath:        getEnv("POLICY_PATH", ""),
		WSPingInterval:    time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WSWriteTimeout:    time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		WSReadTimeout:     time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
		WSMaxMessageSize:  int64(getEnvInt("WS_MAX_MESSAGE_SIZE", 65536)),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// ProviderConfigured reports whether the configured provider mode has the
// credentials it needs to place real calls.
func (c *Config) ProviderConfigured() bool {
	if c.ProviderMode == "TWILIO" {
		return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.OriginNumber != ""
	}
	return true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
