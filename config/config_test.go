package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validBase() *BotConfig {
	return &BotConfig{
		Token:          "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
		APIID:          12345,
		APIHash:        "abcdef123456",
		LogLevel:       "INFO",
		DataDir:        "data",
		BinFile:        "data/bins_all.csv",
		Cooldown:       10 * time.Second,
		GenLimit:       10000,
		GateMinLatency: time.Second,
		GateMaxLatency: 3 * time.Second,
		GateApproval:   0.3,
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid configuration",
			envVars: map[string]string{
				"BOT_TOKEN": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
				"API_ID":    "12345",
				"API_HASH":  "abcdef123456",
				"LOG_LEVEL": "INFO",
				"OWNER_IDS": "1234567890,987654321",
			},
			expectError: false,
		},
		{
			name: "valid configuration with defaults",
			envVars: map[string]string{
				"BOT_TOKEN": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
				"API_ID":    "12345",
				"API_HASH":  "abcdef123456",
			},
			expectError: false,
		},
		{
			name: "missing BOT_TOKEN",
			envVars: map[string]string{
				"API_ID":   "12345",
				"API_HASH": "abcdef123456",
			},
			expectError: true,
			errorMsg:    "environment validation failed",
		},
		{
			name: "invalid API_ID",
			envVars: map[string]string{
				"BOT_TOKEN": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
				"API_ID":    "not_a_number",
				"API_HASH":  "abcdef123456",
			},
			expectError: true,
			errorMsg:    "environment validation failed",
		},
		{
			name: "malformed OWNER_IDS",
			envVars: map[string]string{
				"BOT_TOKEN": "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11",
				"API_ID":    "12345",
				"API_HASH":  "abcdef123456",
				"OWNER_IDS": "1234567890,abc",
			},
			expectError: true,
			errorMsg:    "environment validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			config, err := LoadConfig()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.HasPrefix(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to start with %q, got %q", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("expected no error but got: %v", err)
					return
				}
				if config == nil {
					t.Errorf("expected config but got nil")
					return
				}

				// Verify config values
				if config.Token != tt.envVars["BOT_TOKEN"] {
					t.Errorf("expected token %q, got %q", tt.envVars["BOT_TOKEN"], config.Token)
				}

				expectedLogLevel := tt.envVars["LOG_LEVEL"]
				if expectedLogLevel == "" {
					expectedLogLevel = "INFO" // default
				}
				if config.LogLevel != expectedLogLevel {
					t.Errorf("expected log level %q, got %q", expectedLogLevel, config.LogLevel)
				}
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("BOT_TOKEN", "123456:ABC")
	os.Setenv("API_ID", "12345")
	os.Setenv("API_HASH", "abcdef123456")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Cooldown != 10*time.Second {
		t.Errorf("expected default cooldown 10s, got %v", config.Cooldown)
	}
	if config.GenLimit != 10000 {
		t.Errorf("expected default generation limit 10000, got %d", config.GenLimit)
	}
	if config.DataDir != "data" {
		t.Errorf("expected default data dir %q, got %q", "data", config.DataDir)
	}
	if config.GateApproval != 0.3 {
		t.Errorf("expected default gate approval rate 0.3, got %f", config.GateApproval)
	}
	if len(config.OwnerIDs) != 0 {
		t.Errorf("expected no owner IDs by default, got %v", config.OwnerIDs)
	}
}

func TestLoadConfig_CooldownOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("BOT_TOKEN", "123456:ABC")
	os.Setenv("API_ID", "12345")
	os.Setenv("API_HASH", "abcdef123456")
	os.Setenv("COOLDOWN_SECONDS", "30")
	os.Setenv("GATE_MIN_LATENCY_MS", "250")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Cooldown != 30*time.Second {
		t.Errorf("expected cooldown 30s, got %v", config.Cooldown)
	}
	if config.GateMinLatency != 250*time.Millisecond {
		t.Errorf("expected gate min latency 250ms, got %v", config.GateMinLatency)
	}
}

func TestBotConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*BotConfig)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid configuration",
			mutate:      func(c *BotConfig) {},
			expectError: false,
		},
		{
			name:        "empty token",
			mutate:      func(c *BotConfig) { c.Token = "" },
			expectError: true,
			errorMsg:    "bot token cannot be empty",
		},
		{
			name:        "invalid API ID (zero)",
			mutate:      func(c *BotConfig) { c.APIID = 0 },
			expectError: true,
			errorMsg:    "API ID must be a positive integer",
		},
		{
			name:        "empty API hash",
			mutate:      func(c *BotConfig) { c.APIHash = "" },
			expectError: true,
			errorMsg:    "API hash cannot be empty",
		},
		{
			name:        "empty data dir",
			mutate:      func(c *BotConfig) { c.DataDir = "" },
			expectError: true,
			errorMsg:    "data directory cannot be empty",
		},
		{
			name:        "negative cooldown",
			mutate:      func(c *BotConfig) { c.Cooldown = -time.Second },
			expectError: true,
			errorMsg:    "cooldown cannot be negative",
		},
		{
			name:        "zero generation limit",
			mutate:      func(c *BotConfig) { c.GenLimit = 0 },
			expectError: true,
			errorMsg:    "generation limit must be positive",
		},
		{
			name:        "approval rate above 1",
			mutate:      func(c *BotConfig) { c.GateApproval = 1.5 },
			expectError: true,
			errorMsg:    "gate approval rate must be between 0 and 1",
		},
		{
			name:        "gate latency bounds inverted",
			mutate:      func(c *BotConfig) { c.GateMaxLatency = c.GateMinLatency / 2 },
			expectError: true,
			errorMsg:    "gate max latency",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *BotConfig) { c.LogLevel = "VERBOSE" },
			expectError: true,
			errorMsg:    "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validBase()
			tt.mutate(config)

			err := config.Validate()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.HasPrefix(err.Error(), tt.errorMsg) {
					t.Errorf("expected error message to start with %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestBotConfig_IsOwner(t *testing.T) {
	config := validBase()
	config.OwnerIDs = []int64{1234567890, 42}

	if !config.IsOwner(1234567890) {
		t.Error("expected 1234567890 to be an owner")
	}
	if !config.IsOwner(42) {
		t.Error("expected 42 to be an owner")
	}
	if config.IsOwner(7) {
		t.Error("expected 7 not to be an owner")
	}
}
