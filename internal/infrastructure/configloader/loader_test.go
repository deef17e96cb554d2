package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
priceFeed:
  baseURL: "https://prices.example.com"
relayer:
  baseURL: "https://relayer.example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "usd", cfg.PriceFeed.VsCurrency)
	assert.Equal(t, int64(10000), cfg.PriceFeed.RequestTimeoutMillis)
	assert.Equal(t, 5, cfg.PriceFeed.CacheTTLMinutes)
	assert.Equal(t, int64(10000), cfg.Relayer.RequestTimeoutMillis)
	assert.Equal(t, 30, cfg.Session.TTLMinutes)
	assert.Equal(t, int64(15000), cfg.Session.RequestTimeoutMillis)
	assert.Equal(t, "config/tokens.yaml", cfg.TokenCatalogPath)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9000"
logging:
  level: debug
priceFeed:
  baseURL: "https://prices.example.com"
  vsCurrency: eur
  requestTimeoutMillis: 2500
relayer:
  baseURL: "https://relayer.example.com"
session:
  ttlMinutes: 5
chains:
  - name: Osmosis
    identifier: osmosis
    family: cosmos
  - name: Ethereum
    identifier: ethereum
    family: evm
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "eur", cfg.PriceFeed.VsCurrency)
	assert.Equal(t, int64(2500), cfg.PriceFeed.RequestTimeoutMillis)
	assert.Equal(t, 5, cfg.Session.TTLMinutes)
	require.Len(t, cfg.Chains, 2)
	assert.Equal(t, "osmosis", cfg.Chains[0].Identifier)
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
relayer:
  baseURL: "https://relayer.example.com"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownChainFamily(t *testing.T) {
	path := writeConfig(t, `
priceFeed:
  baseURL: "https://prices.example.com"
relayer:
  baseURL: "https://relayer.example.com"
chains:
  - name: Solana
    identifier: solana
    family: solana
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
