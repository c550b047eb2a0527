// Package config collects environment configuration and the tunable
// constants of the service.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// PaymentCheckCooldown is the minimum delay between two invoice
	// status checks by the same user.
	PaymentCheckCooldown = 5 * time.Minute

	// DefaultPremiumPriceRUB is charged for a lifetime premium upgrade
	// when PREMIUM_PRICE_RUB is not set.
	DefaultPremiumPriceRUB = "100"

	// UpdateTimeout is the long-poll timeout for Telegram updates, seconds.
	UpdateTimeout = 60
)

// Config is everything the binaries read from the environment.
type Config struct {
	BotToken        string
	DatabaseDSN     string
	RedisAddr       string
	RedisPassword   string
	CryptoPayToken  string
	PremiumPriceRUB string
	HTTPAddr        string
	APISecret       string
	LocalesDir      string
}

// Load reads the configuration from the environment. BotToken and
// DatabaseDSN are mandatory for the bot binary.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CryptoPayToken:  os.Getenv("CRYPTO_PAY_TOKEN"),
		PremiumPriceRUB: getEnv("PREMIUM_PRICE_RUB", DefaultPremiumPriceRUB),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		APISecret:       os.Getenv("API_SECRET"),
		LocalesDir:      getEnv("LOCALES_DIR", "internal/localization"),
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is not set")
	}
	return cfg, nil
}

// LoadDSN reads only the database settings, for the admin CLI.
func LoadDSN() (string, error) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_DSN is not set")
	}
	return dsn, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
