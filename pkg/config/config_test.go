package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	c.Environment = "test"
	c.Backend.Type = "clickhouse"
	c.EODHD.APIKey = "key"
	c.Analytics.RiskFreeRate = 0.02
	return c
}

func TestValidateMinimal(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateBackendType(t *testing.T) {
	c := validConfig()
	c.Backend.Type = "postgres"
	assert.Error(t, c.Validate())
}

func TestValidateStreamRequiresCredentials(t *testing.T) {
	c := validConfig()
	c.Stream.Enabled = true
	c.Stream.Symbols = []string{"AAPL"}
	c.ClickHouse.Host = "localhost"
	assert.Error(t, c.Validate())

	c.Stream.APIKey = "key"
	assert.NoError(t, c.Validate())
}

func TestValidateIngestionRequiresClickHouseHost(t *testing.T) {
	c := validConfig()
	c.Stream.Enabled = true
	c.Stream.APIKey = "key"
	c.Stream.Symbols = []string{"AAPL"}
	assert.Error(t, c.Validate())

	c.ClickHouse.Host = "localhost"
	assert.NoError(t, c.Validate())
}

func TestValidateKafkaBackendRequiresClickHouseHost(t *testing.T) {
	c := validConfig()
	c.Backend.Type = "kafka"
	assert.Error(t, c.Validate())

	c.ClickHouse.Host = "localhost"
	assert.NoError(t, c.Validate())
}

func TestValidateRiskFreeRateBounds(t *testing.T) {
	c := validConfig()
	c.Analytics.RiskFreeRate = 1.5
	assert.Error(t, c.Validate())
}

func TestAnnualizationBaseDefault(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 252.0, c.AnnualizationBase())

	c.Analytics.TradingDays = 260
	assert.Equal(t, 260.0, c.AnnualizationBase())
}
