package config

import (
	"os"
	"strings"
	"testing"
)

func TestEnvValidator_ValidateRequired(t *testing.T) {
	validator := NewEnvValidator()

	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name: "all required variables present",
			envVars: map[string]string{
				"BOT_TOKEN": "test_token",
				"API_ID":    "12345",
				"API_HASH":  "test_hash",
			},
			expectError: false,
		},
		{
			name: "missing BOT_TOKEN",
			envVars: map[string]string{
				"API_ID":   "12345",
				"API_HASH": "test_hash",
			},
			expectError: true,
			errorMsg:    "missing required environment variables: [BOT_TOKEN]",
		},
		{
			name: "missing API_ID",
			envVars: map[string]string{
				"BOT_TOKEN": "test_token",
				"API_HASH":  "test_hash",
			},
			expectError: true,
			errorMsg:    "missing required environment variables: [API_ID]",
		},
		{
			name: "non-numeric API_ID",
			envVars: map[string]string{
				"BOT_TOKEN": "test_token",
				"API_ID":    "abc",
				"API_HASH":  "test_hash",
			},
			expectError: true,
			errorMsg:    "invalid API_ID",
		},
		{
			name: "non-numeric owner ID",
			envVars: map[string]string{
				"BOT_TOKEN": "test_token",
				"API_ID":    "12345",
				"API_HASH":  "test_hash",
				"OWNER_IDS": "123,nope",
			},
			expectError: true,
			errorMsg:    "invalid OWNER_IDS",
		},
		{
			name: "owner IDs with whitespace",
			envVars: map[string]string{
				"BOT_TOKEN": "test_token",
				"API_ID":    "12345",
				"API_HASH":  "test_hash",
				"OWNER_IDS": " 123 , 456 ",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			err := validator.ValidateRequired()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error to contain %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestEnvValidator_GetAPICredentials(t *testing.T) {
	validator := NewEnvValidator()

	os.Clearenv()
	os.Setenv("API_ID", "98765")
	os.Setenv("API_HASH", "hash_value")

	apiID, apiHash, err := validator.GetAPICredentials()
	if err != nil {
		t.Fatalf("GetAPICredentials failed: %v", err)
	}
	if apiID != 98765 {
		t.Errorf("expected API ID 98765, got %d", apiID)
	}
	if apiHash != "hash_value" {
		t.Errorf("expected API hash %q, got %q", "hash_value", apiHash)
	}
}

func TestEnvValidator_GetAPICredentials_Missing(t *testing.T) {
	validator := NewEnvValidator()

	os.Clearenv()

	if _, _, err := validator.GetAPICredentials(); err == nil {
		t.Error("expected error when API credentials are missing")
	}
}
