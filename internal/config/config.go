package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	BaseURL            string        `mapstructure:"base_url"`
	HeadersFile        string        `mapstructure:"headers_file"`
	TokenHeader        string        `mapstructure:"token_header"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	StorageType     string        `mapstructure:"storage_type"`
	BBoltPath       string        `mapstructure:"bbolt_path"`
	TokenTTLSeconds int64         `mapstructure:"token_ttl_seconds"`
	TokenTTL        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "resty-auth-driver")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "")
	v.SetDefault("headers_file", "")
	v.SetDefault("token_header", "Authorization")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/session.db")
	v.SetDefault("token_ttl_seconds", int64((24*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.TokenTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid token_ttl_seconds (must be positive seconds)")
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLSeconds) * time.Second

	if cfg.TokenHeader == "" {
		return nil, fmt.Errorf("token_header must not be empty")
	}

	return &cfg, nil
}
