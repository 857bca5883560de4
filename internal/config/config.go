package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all driver configuration
type Config struct {
	Driver   DriverConfig
	Gateway  GatewayConfig
	Test     CredentialsConfig
	Live     CredentialsConfig
	Fees     FeesConfig
	Logger   LoggerConfig
	Settings SettingsConfig
}

// DriverConfig holds driver-level settings
type DriverConfig struct {
	Mode                string // test or live
	StatementDescriptor string // supports the {{INVOICE_REF}} placeholder, max 22 chars at the gateway
	SupportedCurrency   string // Authorize.Net accounts support a single currency
}

// GatewayConfig holds Authorize.Net endpoint configuration
type GatewayConfig struct {
	TestURL string
	LiveURL string
	Timeout int // request timeout in seconds
}

// CredentialsConfig holds one mode's API credential set
type CredentialsConfig struct {
	LoginID         string
	TransactionKey  string
	PublicClientKey string
	SignatureKey    string
}

// FeesConfig holds the per-transaction fee parameters
type FeesConfig struct {
	Fixed      int64  // minor currency units
	Percentage string // 0-100, decimal string (e.g. "2.9")
}

// SettingsConfig selects and configures the settings backend
type SettingsConfig struct {
	Backend      string // env, vault, or aws
	VaultAddress string
	VaultToken   string
	VaultPath    string // KV v2 base path for driver settings
	AWSRegion    string
	AWSSecretID  string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Driver: DriverConfig{
			Mode:                getEnv("AUTHNET_MODE", "test"),
			StatementDescriptor: getEnv("AUTHNET_STATEMENT_DESCRIPTOR", "INV #{{INVOICE_REF}}"),
			SupportedCurrency:   getEnv("AUTHNET_CURRENCY", "USD"),
		},
		Gateway: GatewayConfig{
			TestURL: getEnv("AUTHNET_TEST_URL", "https://apitest.authorize.net/xml/v1/request.api"),
			LiveURL: getEnv("AUTHNET_LIVE_URL", "https://api.authorize.net/xml/v1/request.api"),
			Timeout: getEnvAsInt("AUTHNET_TIMEOUT", 30),
		},
		Test: CredentialsConfig{
			LoginID:         getEnv("AUTHNET_LOGIN_ID_TEST", ""),
			TransactionKey:  getEnv("AUTHNET_TRANSACTION_KEY_TEST", ""),
			PublicClientKey: getEnv("AUTHNET_PUBLIC_CLIENT_KEY_TEST", ""),
			SignatureKey:    getEnv("AUTHNET_SIGNATURE_KEY_TEST", ""),
		},
		Live: CredentialsConfig{
			LoginID:         getEnv("AUTHNET_LOGIN_ID", ""),
			TransactionKey:  getEnv("AUTHNET_TRANSACTION_KEY", ""),
			PublicClientKey: getEnv("AUTHNET_PUBLIC_CLIENT_KEY", ""),
			SignatureKey:    getEnv("AUTHNET_SIGNATURE_KEY", ""),
		},
		Fees: FeesConfig{
			Fixed:      int64(getEnvAsInt("AUTHNET_FEE_FIXED", 0)),
			Percentage: getEnv("AUTHNET_FEE_PERCENTAGE", "0"),
		},
		Settings: SettingsConfig{
			Backend:      getEnv("SETTINGS_BACKEND", "env"),
			VaultAddress: getEnv("VAULT_ADDR", ""),
			VaultToken:   getEnv("VAULT_TOKEN", ""),
			VaultPath:    getEnv("SETTINGS_VAULT_PATH", "invoice-drivers/authorizenet"),
			AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
			AWSSecretID:  getEnv("SETTINGS_AWS_SECRET_ID", "invoice-drivers/authorizenet"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Driver.Mode != "test" && cfg.Driver.Mode != "live" {
		return nil, fmt.Errorf("AUTHNET_MODE must be test or live, got %q", cfg.Driver.Mode)
	}

	// Credentials are only required for the env backend; Vault and AWS
	// supply them at charge time
	if cfg.Settings.Backend == "env" {
		creds := cfg.Test
		if cfg.Driver.Mode == "live" {
			creds = cfg.Live
		}
		if creds.LoginID == "" {
			return nil, fmt.Errorf("a login ID is required for mode %q", cfg.Driver.Mode)
		}
		if creds.TransactionKey == "" {
			return nil, fmt.Errorf("a transaction key is required for mode %q", cfg.Driver.Mode)
		}
	}

	if cfg.Settings.Backend == "vault" && cfg.Settings.VaultAddress == "" {
		return nil, fmt.Errorf("VAULT_ADDR is required for the vault settings backend")
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
