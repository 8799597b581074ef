package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name in a data directory.
const FileName = "gastozen.yaml"

// EnvPrefix prefixes environment overrides, e.g. GASTOZEN_STORE_BACKEND.
const EnvPrefix = "GASTOZEN"

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the top-level gastozen.yaml configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Assistant AssistantConfig `yaml:"assistant" mapstructure:"assistant"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
}

// StoreConfig selects where the ledger state is persisted.
type StoreConfig struct {
	Backend       string `yaml:"backend" mapstructure:"backend"`
	Path          string `yaml:"path" mapstructure:"path"` // file and sqlite backends
	RedisAddr     string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix" mapstructure:"redis_prefix"`
}

// AssistantConfig controls the transaction drafting assistant.
type AssistantConfig struct {
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKeyEnv   string  `yaml:"api_key_env" mapstructure:"api_key_env"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// APIKey reads the assistant key from the configured environment variable.
func (a AssistantConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// DisplayConfig controls how amounts and lists are rendered.
type DisplayConfig struct {
	CurrencySymbol     string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
	RecentTransactions int    `yaml:"recent_transactions" mapstructure:"recent_transactions"`
}

// Load reads a gastozen.yaml file from disk. Any key can be overridden from
// the environment, e.g. GASTOZEN_STORE_BACKEND=redis.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// FromEnv returns the defaults with environment overrides applied. Used when
// no config file exists yet.
func FromEnv() (*Config, error) {
	v := newViper()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:     BackendFile,
			Path:        "gastozen.json",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "gastozen:",
		},
		Assistant: AssistantConfig{
			Model:       "gemini-2.5-flash",
			APIKeyEnv:   "GEMINI_API_KEY",
			Temperature: 0.2,
		},
		Display: DisplayConfig{
			CurrencySymbol:     "₲",
			RecentTransactions: 5,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.redis_addr", d.Store.RedisAddr)
	v.SetDefault("store.redis_password", d.Store.RedisPassword)
	v.SetDefault("store.redis_db", d.Store.RedisDB)
	v.SetDefault("store.redis_prefix", d.Store.RedisPrefix)
	v.SetDefault("assistant.model", d.Assistant.Model)
	v.SetDefault("assistant.api_key_env", d.Assistant.APIKeyEnv)
	v.SetDefault("assistant.temperature", d.Assistant.Temperature)
	v.SetDefault("display.currency_symbol", d.Display.CurrencySymbol)
	v.SetDefault("display.recent_transactions", d.Display.RecentTransactions)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
