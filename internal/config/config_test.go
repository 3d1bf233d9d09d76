package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantgate/signal-sentinel/pkg/errors"
	"github.com/quantgate/signal-sentinel/pkg/schema"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) writeFile(content string) string {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	config, err := Load("")
	s.Require().NoError(err)

	s.Equal(":8080", config.Server.ListenAddr)
	s.Equal("sentinel.duckdb", config.Store.Path)
	s.Equal(256, config.Notifier.QueueSize)
	s.Equal(3, config.Notifier.MaxAttempts)
	s.Equal(time.Second, config.Notifier.RetryDelay)
	s.Equal("info", config.LogLevel)
}

func (s *ConfigTestSuite) TestLoadFromFile() {
	path := s.writeFile(`
server:
  listen_addr: ":9090"
store:
  path: ":memory:"
notifier:
  webhook_url: "https://hooks.example.com/signals"
  queue_size: 64
feed:
  provider: binance
  symbols: [BTCUSDT, ETHUSDT]
  interval: 1h
log_level: debug
`)

	config, err := Load(path)
	s.Require().NoError(err)

	s.Equal(":9090", config.Server.ListenAddr)
	s.Equal(":memory:", config.Store.Path)
	s.Equal("https://hooks.example.com/signals", config.Notifier.WebhookURL)
	s.Equal(64, config.Notifier.QueueSize)
	s.Equal("binance", config.Feed.Provider)
	s.Equal([]string{"BTCUSDT", "ETHUSDT"}, config.Feed.Symbols)
	s.Equal("debug", config.LogLevel)

	// Values not present in the file keep their defaults.
	s.Equal(3, config.Notifier.MaxAttempts)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	path := s.writeFile(`
store:
  path: "from-file.duckdb"
`)

	s.T().Setenv("SENTINEL_DB_PATH", "from-env.duckdb")
	s.T().Setenv("SENTINEL_LOG_LEVEL", "warn")

	config, err := Load(path)
	s.Require().NoError(err)

	s.Equal("from-env.duckdb", config.Store.Path)
	s.Equal("warn", config.LogLevel)
}

func (s *ConfigTestSuite) TestInvalidValuesRejected() {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad log level",
			content: "log_level: verbose",
		},
		{
			name:    "bad webhook url",
			content: "notifier:\n  webhook_url: \"not a url\"",
		},
		{
			name:    "bad feed provider",
			content: "feed:\n  provider: coinbase",
		},
		{
			name:    "zero queue size",
			content: "notifier:\n  queue_size: -1",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := Load(s.writeFile(tc.content))
			s.Require().Error(err)
			s.Equal(errors.ErrCodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func (s *ConfigTestSuite) TestMissingFile() {
	_, err := Load("/nonexistent/config.yaml")
	s.Require().Error(err)
	s.Equal(errors.ErrCodeConfigReadFailed, errors.GetCode(err))
}

func (s *ConfigTestSuite) TestMalformedYAML() {
	_, err := Load(s.writeFile("server: [not a map"))
	s.Require().Error(err)
	s.Equal(errors.ErrCodeConfigParseFailed, errors.GetCode(err))
}

func (s *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := DefaultConfig()

	out, err := config.GenerateSchemaJSON()
	s.Require().NoError(err)
	s.Contains(out, "listen_addr")
	s.Contains(out, "webhook_url")
}

func (s *ConfigTestSuite) TestSecretFieldsTagged() {
	s.ElementsMatch(
		[]string{"telegram_token"},
		schema.SecretFields(NotifierConfig{}),
	)
	s.ElementsMatch(
		[]string{"auth_secret"},
		schema.SecretFields(ServerConfig{}),
	)
}
