// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"github.com/quantgate/signal-sentinel/pkg/schema"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. SENTINEL_DB_PATH.
const EnvPrefix = "SENTINEL_"

// Config is the top-level service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Notifier NotifierConfig `yaml:"notifier" json:"notifier"`
	Feed     FeedConfig     `yaml:"feed" json:"feed"`

	LogLevel string `yaml:"log_level" json:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" env:"LISTEN_ADDR" validate:"required"`
	// AuthSecret signs and verifies admin bearer tokens. Leaving it empty
	// disables the admin surface.
	AuthSecret string `yaml:"auth_secret" json:"auth_secret" env:"AUTH_SECRET" secret:"true"`
}

// StoreConfig configures the DuckDB signal store.
type StoreConfig struct {
	// Path is the DuckDB database file, or ":memory:".
	Path string `yaml:"path" json:"path" env:"DB_PATH" validate:"required"`
}

// NotifierConfig configures notification delivery.
type NotifierConfig struct {
	WebhookURL     string        `yaml:"webhook_url" json:"webhook_url" env:"WEBHOOK_URL" validate:"omitempty,url"`
	TelegramToken  string        `yaml:"telegram_token" json:"telegram_token" env:"TELEGRAM_TOKEN" secret:"true"`
	TelegramChatID int64         `yaml:"telegram_chat_id" json:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	QueueSize      int           `yaml:"queue_size" json:"queue_size" env:"QUEUE_SIZE" validate:"omitempty,gt=0"`
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts" env:"MAX_ATTEMPTS" validate:"omitempty,gt=0"`
	RetryDelay     time.Duration `yaml:"retry_delay" json:"retry_delay" env:"RETRY_DELAY"`
}

// FeedConfig configures the optional market data feed.
type FeedConfig struct {
	Provider      string   `yaml:"provider" json:"provider" env:"FEED_PROVIDER" validate:"omitempty,oneof=binance polygon"`
	Symbols       []string `yaml:"symbols" json:"symbols" env:"FEED_SYMBOLS"`
	Interval      string   `yaml:"interval" json:"interval" env:"FEED_INTERVAL"`
	PolygonAPIKey string   `yaml:"polygon_api_key" json:"polygon_api_key" env:"POLYGON_API_KEY" secret:"true"`
	// PollInterval is how often the polygon provider fetches aggregates.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" env:"FEED_POLL_INTERVAL"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Store: StoreConfig{
			Path: "sentinel.duckdb",
		},
		Notifier: NotifierConfig{
			QueueSize:   256,
			MaxAttempts: 3,
			RetryDelay:  time.Second,
		},
		Feed: FeedConfig{
			Interval:     "1m",
			PollInterval: 15 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration file at path (skipped when path is empty),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeConfigReadFailed, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfigParseFailed, "failed to parse config file", err)
		}
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigParseFailed, "failed to apply environment overrides", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "invalid configuration", err)
	}

	return nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	return schema.ToJSONSchema(c)
}
