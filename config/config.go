package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// BotConfig holds all configuration values for the Telegram bot
type BotConfig struct {
	Token    string // Telegram bot token
	APIID    int    // Telegram API ID
	APIHash  string // Telegram API Hash
	LogLevel string // Logging level (INFO, WARN, ERROR, FATAL)

	OwnerIDs []int64 // User IDs allowed to run owner-only commands
	DataDir  string  // Directory for the account database and VBV table
	BinFile  string  // Path to the BIN metadata CSV

	Cooldown time.Duration // Minimum gap between credit-consuming commands per user
	GenLimit int           // Maximum cards per /gen request

	GateMinLatency time.Duration // Lower bound for simulated gate latency
	GateMaxLatency time.Duration // Upper bound for simulated gate latency
	GateApproval   float64       // Simulated gate approval rate (0..1)
}

// LoadConfig loads and validates the bot configuration from environment variables
// Returns a BotConfig struct or an error if validation fails
func LoadConfig() (*BotConfig, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Create and use environment validator
	validator := NewEnvValidator()

	// Validate required environment variables
	if err := validator.ValidateRequired(); err != nil {
		return nil, fmt.Errorf("environment validation failed: %w", err)
	}

	// Get API credentials
	apiID, apiHash, err := validator.GetAPICredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to get API credentials: %w", err)
	}

	// Get bot token
	token := validator.GetBotToken()
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required but not set")
	}

	ownerIDs, err := parseOwnerIDs(os.Getenv("OWNER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OWNER_IDS: %w", err)
	}

	// Get log level with default
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO" // Default log level
	}

	config := &BotConfig{
		Token:          token,
		APIID:          apiID,
		APIHash:        apiHash,
		LogLevel:       logLevel,
		OwnerIDs:       ownerIDs,
		DataDir:        getEnvDefault("DATA_DIR", "data"),
		BinFile:        getEnvDefault("BIN_FILE", "data/bins_all.csv"),
		Cooldown:       getEnvDuration("COOLDOWN_SECONDS", 10*time.Second),
		GenLimit:       getEnvInt("GEN_LIMIT", 10000),
		GateMinLatency: getEnvDuration("GATE_MIN_LATENCY_MS", time.Second),
		GateMaxLatency: getEnvDuration("GATE_MAX_LATENCY_MS", 3*time.Second),
		GateApproval:   getEnvFloat("GATE_APPROVAL_RATE", 0.3),
	}

	return config, nil
}

// Validate performs additional validation on the loaded configuration
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("bot token cannot be empty")
	}

	if c.APIID <= 0 {
		return fmt.Errorf("API ID must be a positive integer, got: %d", c.APIID)
	}

	if c.APIHash == "" {
		return fmt.Errorf("API hash cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown cannot be negative, got: %v", c.Cooldown)
	}

	if c.GenLimit <= 0 {
		return fmt.Errorf("generation limit must be positive, got: %d", c.GenLimit)
	}

	if c.GateApproval < 0 || c.GateApproval > 1 {
		return fmt.Errorf("gate approval rate must be between 0 and 1, got: %f", c.GateApproval)
	}

	if c.GateMaxLatency < c.GateMinLatency {
		return fmt.Errorf("gate max latency (%v) must be >= min latency (%v)", c.GateMaxLatency, c.GateMinLatency)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
		"FATAL": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s. Valid levels are: DEBUG, INFO, WARN, ERROR, FATAL", c.LogLevel)
	}

	return nil
}

// IsOwner reports whether the given user ID belongs to a configured owner
func (c *BotConfig) IsOwner(userID int64) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parseOwnerIDs parses a comma-separated list of numeric user IDs
func parseOwnerIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("owner ID must be a valid integer, got: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

// getEnvDuration reads an integer env var and interprets it in the unit
// implied by the key suffix (_MS or _SECONDS)
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	if strings.HasSuffix(key, "_MS") {
		return time.Duration(n) * time.Millisecond
	}
	return time.Duration(n) * time.Second
}
