package configloader

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PriceFeedConfig holds price feed API configuration.
type PriceFeedConfig struct {
	BaseURL               string  `yaml:"baseURL" validate:"required,url"`
	APIKey                string  `yaml:"apiKey"`
	VsCurrency            string  `yaml:"vsCurrency"`
	RequestTimeoutMillis  int64   `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes       int     `yaml:"cacheTTLMinutes"`
	RequestsPerSecond     float64 `yaml:"requestsPerSecond"`
	MaxConcurrentPrefetch int     `yaml:"maxConcurrentPrefetch"`
}

// RelayerConfig holds relayer fee API configuration.
type RelayerConfig struct {
	BaseURL              string `yaml:"baseURL" validate:"required,url"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// SessionConfig holds quote session configuration.
type SessionConfig struct {
	TTLMinutes           int   `yaml:"ttlMinutes"`
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
}

// ChainConfig describes one chain selectable as a transfer endpoint.
type ChainConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Identifier string `yaml:"identifier" validate:"required"`
	Family     string `yaml:"family" validate:"required,oneof=evm cosmos"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server           ServerConfig    `yaml:"server"`
	Logging          LoggingConfig   `yaml:"logging"`
	PriceFeed        PriceFeedConfig `yaml:"priceFeed"`
	Relayer          RelayerConfig   `yaml:"relayer"`
	Session          SessionConfig   `yaml:"session"`
	Chains           []ChainConfig   `yaml:"chains" validate:"dive"`
	TokenCatalogPath string          `yaml:"tokenCatalogPath"`
}

// Load reads the YAML configuration file from the given path, applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.PriceFeed.VsCurrency == "" {
		cfg.PriceFeed.VsCurrency = "usd"
	}
	if cfg.PriceFeed.RequestTimeoutMillis <= 0 {
		cfg.PriceFeed.RequestTimeoutMillis = 10000
	}
	if cfg.PriceFeed.CacheTTLMinutes <= 0 {
		cfg.PriceFeed.CacheTTLMinutes = 5
	}
	if cfg.PriceFeed.RequestsPerSecond <= 0 {
		cfg.PriceFeed.RequestsPerSecond = 5
	}
	if cfg.PriceFeed.MaxConcurrentPrefetch <= 0 {
		cfg.PriceFeed.MaxConcurrentPrefetch = 5
	}

	if cfg.Relayer.RequestTimeoutMillis <= 0 {
		cfg.Relayer.RequestTimeoutMillis = 10000
	}

	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 30
	}
	if cfg.Session.RequestTimeoutMillis <= 0 {
		// bound both outbound calls so no session can sit in a loading
		// state forever
		cfg.Session.RequestTimeoutMillis = 15000
	}

	if cfg.TokenCatalogPath == "" {
		cfg.TokenCatalogPath = "config/tokens.yaml"
	}
}
