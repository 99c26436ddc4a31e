// Package config loads E-POST client settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	epost "github.com/Quosimadu/epost-api"
	"github.com/Quosimadu/epost-api/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. EPOST_VENDOR_ID.
const EnvPrefix = "epost"

// APIConfig configures the transport.
type APIConfig struct {
	BaseURL   string        // API endpoint, default https://api.epost.docuguide.com
	Timeout   time.Duration // per-request timeout, default 30s
	Retries   int           // retries of status queries, default 0
	RateLimit float64       // requests per second, 0 disables throttling
}

// AccountConfig holds the account credentials.
type AccountConfig struct {
	VendorID string
	EKP      string
	Secret   string
	Password string
}

// Config is the root configuration.
type Config struct {
	API      APIConfig
	Account  AccountConfig
	TestMode bool // submit letters with the test flag
	Log      logger.Config
}

// Load reads the configuration. Precedence from high to low: environment
// variables, a .env file in the working directory, defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", epost.DefaultBaseURL)
	v.SetDefault("timeout", "30s")
	v.SetDefault("retries", 0)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("vendor_id", "")
	v.SetDefault("ekp", "")
	v.SetDefault("secret", "")
	v.SetDefault("password", "")
	v.SetDefault("test_mode", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	retries := v.GetInt("retries")
	if retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", retries)
	}

	baseURL := strings.TrimSpace(v.GetString("base_url"))
	if baseURL == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   baseURL,
			Timeout:   timeout,
			Retries:   retries,
			RateLimit: v.GetFloat64("rate_limit"),
		},
		Account: AccountConfig{
			VendorID: v.GetString("vendor_id"),
			EKP:      v.GetString("ekp"),
			Secret:   v.GetString("secret"),
			Password: v.GetString("password"),
		},
		TestMode: v.GetBool("test_mode"),
		Log: logger.Config{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
			LogFile:     v.GetString("log.file"),
			MaxSize:     v.GetInt("log.max_size"),
			MaxBackups:  v.GetInt("log.max_backups"),
			MaxAge:      v.GetInt("log.max_age"),
			Compress:    true,
		},
	}

	return cfg, nil
}

// Credentials returns the account as login credentials.
func (c *Config) Credentials() epost.Credentials {
	return epost.Credentials{
		VendorID: c.Account.VendorID,
		EKP:      c.Account.EKP,
		Secret:   c.Account.Secret,
		Password: c.Account.Password,
	}
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions(log *zap.Logger) []epost.Option {
	opts := []epost.Option{
		epost.WithBaseURL(c.API.BaseURL),
		epost.WithTimeout(c.API.Timeout),
		epost.WithRetries(c.API.Retries),
		epost.WithTestEnvironment(c.TestMode),
	}
	if c.API.RateLimit > 0 {
		opts = append(opts, epost.WithRateLimit(rate.Limit(c.API.RateLimit), 1))
	}
	if log != nil {
		opts = append(opts, epost.WithLogger(log))
	}
	return opts
}

// loadEnvFile loads .env from the working directory or its parent. A missing
// file is not an error and set variables are never overridden.
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
