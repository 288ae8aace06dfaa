package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// History storage strategies
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// MaxHandleLength is the upper bound Telegram puts on public usernames
const MaxHandleLength = 32

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig
	Lookup   LookupConfig
	History  HistoryConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	APIURL   string
}

// LookupConfig holds profile lookup configuration
type LookupConfig struct {
	FetchTimeout       time.Duration
	MinHandleLength    int
	RateLimitPerMinute int
}

// HistoryConfig holds search history configuration
type HistoryConfig struct {
	Limit    int
	Storage  string
	FilePath string
}

// DatabaseConfig holds database configuration, used by the postgres history storage
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// KafkaConfig holds Kafka configuration. Publishing is disabled without brokers.
type KafkaConfig struct {
	Brokers     []string
	LookupTopic string
}

// Enabled reports whether lookup events should be published
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name        string
	Port        string
	Environment string
	Version     string
	AdminToken  string
}

// IsDevelopment reports whether the service runs in the development environment
func (c *ServiceConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Lookup   *LookupConfig
	History  *HistoryConfig
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Lookup:   &cfg.Lookup,
		History:  &cfg.History,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	fetchTimeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	minHandleLength, err := getEnvInt("HANDLE_MIN_LENGTH", 4)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 20)
	if err != nil {
		return nil, err
	}

	historyLimit, err := getEnvInt("HISTORY_LIMIT", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", getEnv("TELEGRAM_BOT_TOKEN", "")),
			APIURL:   strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		},
		Lookup: LookupConfig{
			FetchTimeout:       fetchTimeout,
			MinHandleLength:    minHandleLength,
			RateLimitPerMinute: rateLimit,
		},
		History: HistoryConfig{
			Limit:    historyLimit,
			Storage:  strings.ToLower(getEnv("HISTORY_STORAGE", StorageMemory)),
			FilePath: getEnv("HISTORY_FILE", "search_history.jsonl"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "finding"),
			Password: getEnv("DATABASE_PASSWORD", "finding"),
			Name:     getEnv("DATABASE_NAME", "finding"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			LookupTopic: getEnv("KAFKA_LOOKUP_TOPIC", "profile.lookups"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "tg-finding"),
			Port:        getEnv("SERVICE_PORT", getEnv("PORT", "3000")),
			Environment: getEnv("ENVIRONMENT", getEnv("NODE_ENV", "development")),
			Version:     getEnv("SERVICE_VERSION", "1.0.0"),
			AdminToken:  getEnv("ADMIN_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Lookup.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.Lookup.FetchTimeout)
	}

	if c.Lookup.MinHandleLength < 1 || c.Lookup.MinHandleLength > MaxHandleLength {
		return fmt.Errorf("HANDLE_MIN_LENGTH must be between 1 and %d, got %d", MaxHandleLength, c.Lookup.MinHandleLength)
	}

	if c.Lookup.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE cannot be negative")
	}

	if c.History.Limit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.History.Limit)
	}

	switch c.History.Storage {
	case StorageMemory:
	case StorageFile:
		if c.History.FilePath == "" {
			return fmt.Errorf("HISTORY_FILE is required for file history storage")
		}
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("DATABASE_HOST and DATABASE_NAME are required for postgres history storage")
		}
	default:
		return fmt.Errorf("unknown HISTORY_STORAGE %q", c.History.Storage)
	}

	if c.Kafka.Enabled() && c.Kafka.LookupTopic == "" {
		return fmt.Errorf("KAFKA_LOOKUP_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
