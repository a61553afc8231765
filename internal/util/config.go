package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins       []string      `mapstructure:"ALLOWED_ORIGINS"`
	HTTPServerAddress    string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	WebhookServerAddress string        `mapstructure:"WEBHOOK_SERVER_ADDRESS"`
	BackendBaseURL       string        `mapstructure:"BACKEND_BASE_URL"`
	BackendTimeout       time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	RedisServerAddress   string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	TokenSecretKey       string        `mapstructure:"TOKEN_SECRET_KEY"`
	SessionTokenDuration time.Duration `mapstructure:"SESSION_TOKEN_DURATION"`

	PaystackPublicKey   string `mapstructure:"PAYSTACK_PUBLIC_KEY"`
	PaystackSecretKey   string `mapstructure:"PAYSTACK_SECRET_KEY"`
	MonnifyAPIKey       string `mapstructure:"MONNIFY_API_KEY"`
	MonnifyContractCode string `mapstructure:"MONNIFY_CONTRACT_CODE"`
	PaypalClientID      string `mapstructure:"PAYPAL_CLIENT_ID"`

	BankName          string `mapstructure:"BANK_NAME"`
	BankAccountName   string `mapstructure:"BANK_ACCOUNT_NAME"`
	BankAccountNumber string `mapstructure:"BANK_ACCOUNT_NUMBER"`
	BitcoinWallet     string `mapstructure:"BITCOIN_WALLET"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("WEBHOOK_SERVER_ADDRESS", "0.0.0.0:8081")
	viper.SetDefault("BACKEND_TIMEOUT", "15s")
	viper.SetDefault("SESSION_TOKEN_DURATION", "168h")

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.PaystackSecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}

	return nil
}
