package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"plutus/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Economy configuration
	StartingBalance  int64 // balance credited when a wallet is first created
	DailyBaseAmount  int64 // base daily reward before the streak bonus
	DailyStreakBonus int64 // added per consecutive day
	DailyStreakCap   int   // streak days counted toward the bonus

	// Slots configuration
	JackpotContributionPct float64 // fraction of each slot loss fed to the pool
	FreeSpinLossStreak     int     // consecutive slot losses that earn a free spin
	GoldenTicketFraction   float64 // fraction of the pool a golden ticket redeems

	// Blackjack configuration
	BlackjackDecks      int
	BlackjackSessionTTL time.Duration

	// Resolver configuration
	ResolverDiscordIDs []int64 // Discord IDs that can resolve or refund bet events

	// Environment
	Environment string // "development", "production", or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsResolver reports whether a Discord ID may resolve or refund bet events.
func (c *Config) IsResolver(discordID int64) bool {
	for _, id := range c.ResolverDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables. A .env file, when
// present, seeds any variables not already set.
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Economy defaults
		StartingBalance:  1000,
		DailyBaseAmount:  100,
		DailyStreakBonus: 25,
		DailyStreakCap:   30,

		// Slots defaults
		JackpotContributionPct: 0.5,
		FreeSpinLossStreak:     5,
		GoldenTicketFraction:   0.25,

		// Blackjack defaults
		BlackjackDecks:      4,
		BlackjackSessionTTL: 30 * time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if amount := os.Getenv("DAILY_BASE_AMOUNT"); amount != "" {
		if parsed, err := strconv.ParseInt(amount, 10, 64); err == nil {
			config.DailyBaseAmount = parsed
		}
	}
	if ttl := os.Getenv("BLACKJACK_SESSION_TTL_MINUTES"); ttl != "" {
		if parsed, err := strconv.Atoi(ttl); err == nil && parsed > 0 {
			config.BlackjackSessionTTL = time.Duration(parsed) * time.Minute
		}
	}

	// Parse resolver Discord IDs
	if resolverIDs := os.Getenv("RESOLVER_DISCORD_IDS"); resolverIDs != "" {
		idStrings := strings.Split(resolverIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					config.ResolverDiscordIDs = append(config.ResolverDiscordIDs, id)
				}
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		ResolverDiscordIDs:     []int64{999999, 999991, 999998},
		StartingBalance:        1000,
		DailyBaseAmount:        100,
		DailyStreakBonus:       25,
		DailyStreakCap:         30,
		JackpotContributionPct: 0.5,
		FreeSpinLossStreak:     5,
		GoldenTicketFraction:   0.25,
		BlackjackDecks:         4,
		BlackjackSessionTTL:    30 * time.Minute,
	}
}
