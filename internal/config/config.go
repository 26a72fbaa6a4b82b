package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Security SecurityConfig
	Reminder ReminderConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig holds market data lookup configuration
type MarketConfig struct {
	Timeout         time.Duration
	Concurrency     int
	EquitySuffix    string // appended to bare exchange codes such as "7203"
	DefaultCurrency string // used when a foreign-currency asset names no code
}

// SecurityConfig holds the secure note key(s), comma separated, newest first
type SecurityConfig struct {
	SecureNoteKey string
}

// ReminderConfig holds the inventory reminder job configuration
type ReminderConfig struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeout, err := getEnvDuration("MARKET_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("MARKET_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("MARKET_CONCURRENCY must be at least 1, got %d", concurrency)
	}
	reminderEnabled, err := getEnvBool("REMINDER_ENABLED", true)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/asset_inventory.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Market: MarketConfig{
			Timeout:         timeout,
			Concurrency:     concurrency,
			EquitySuffix:    getEnv("MARKET_EQUITY_SUFFIX", ".T"),
			DefaultCurrency: strings.ToUpper(getEnv("MARKET_DEFAULT_CURRENCY", "USD")),
		},
		Security: SecurityConfig{
			SecureNoteKey: os.Getenv("SECURE_NOTE_KEY"),
		},
		Reminder: ReminderConfig{
			Enabled:  reminderEnabled,
			Schedule: getEnv("REMINDER_SCHEDULE", "0 9 1 * *"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
