package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Base URLs of the record-keeping services this backend mediates for.
	WorkOrdersURL string
	AccountsURL   string
	ReceiptsURL   string
	EventsURL     string
	ContractsURL  string

	// ClientTimeout bounds every outbound call to a record service.
	ClientTimeout time.Duration

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("WORK_ORDERS_URL", "http://localhost:8101")
	viper.SetDefault("ACCOUNTS_URL", "http://localhost:8102")
	viper.SetDefault("RECEIPTS_URL", "http://localhost:8103")
	viper.SetDefault("EVENTS_URL", "http://localhost:8104")
	viper.SetDefault("CONTRACTS_URL", "http://localhost:8105")
	viper.SetDefault("CLIENT_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.WorkOrdersURL = viper.GetString("WORK_ORDERS_URL")
	cfg.AccountsURL = viper.GetString("ACCOUNTS_URL")
	cfg.ReceiptsURL = viper.GetString("RECEIPTS_URL")
	cfg.EventsURL = viper.GetString("EVENTS_URL")
	cfg.ContractsURL = viper.GetString("CONTRACTS_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	timeoutStr := viper.GetString("CLIENT_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for CLIENT_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.ClientTimeout = timeout

	return cfg, nil
}
