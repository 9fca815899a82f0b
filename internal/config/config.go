package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration, matching config/config.yaml.
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Postgres  PostgresConfig            `mapstructure:"postgres"`
	Search    SearchConfig              `mapstructure:"search"`
	Providers map[string]ProviderConfig `mapstructure:"providers" validate:"required,min=1,dive"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
}

type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SearchConfig tunes the reconciliation pipeline.
type SearchConfig struct {
	// EnabledProviders limits which configured providers are active.
	// Empty means all configured providers.
	EnabledProviders []string `mapstructure:"enabled_providers"`
}

// ProviderConfig is the per-provider section. Country decides which stations
// the provider is authoritative for.
type ProviderConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	Country    string `mapstructure:"country" validate:"required,len=2"`
	Timeout    int    `mapstructure:"timeout"`     // seconds, per outbound call
	RetryCount int    `mapstructure:"retry_count"` // transport-level retries
	AuthToken  string `mapstructure:"auth_token"`
	AuthKey    string `mapstructure:"auth_key"`
	Proxy      string `mapstructure:"proxy"`
}

// CallTimeout returns the per-call timeout with a default matching typical
// upstream rail APIs.
func (p *ProviderConfig) CallTimeout() time.Duration {
	if p.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// LoadConfig reads config/config.yaml; secrets are overridden from the
// environment (.env is loaded first when present and is not committed).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// overrideFromEnv applies env overrides for secrets, keyed by provider name:
// TRAINY_<PROVIDER>_AUTH_TOKEN / _AUTH_KEY / _PROXY, plus POSTGRES_DSN.
func overrideFromEnv(cfg *Config) {
	for name, p := range cfg.Providers {
		prefix := "TRAINY_" + strings.ToUpper(name) + "_"
		if v := os.Getenv(prefix + "AUTH_TOKEN"); v != "" {
			p.AuthToken = v
		}
		if v := os.Getenv(prefix + "AUTH_KEY"); v != "" {
			p.AuthKey = v
		}
		if v := os.Getenv(prefix + "PROXY"); v != "" {
			p.Proxy = v
		}
		cfg.Providers[name] = p
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// ProviderEnabled reports whether a provider participates in searches.
func (c *Config) ProviderEnabled(name string) bool {
	if len(c.Search.EnabledProviders) == 0 {
		return true
	}
	for _, n := range c.Search.EnabledProviders {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
