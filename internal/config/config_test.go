package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)

	table, err := cfg.FeeTable()
	require.NoError(t, err)
	rate, err := table.Rate(domain.PlatformEbay)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.13)))
}

func TestLoad_OverridesAndExtends(t *testing.T) {
	path := writeConfig(t, `
currency: USD
price_source_url: http://localhost:9090/ebay-price
platform_fees:
  EBAY: "0.129"
  WHATNOT: "0.11"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "http://localhost:9090/ebay-price", cfg.PriceSourceURL)

	table, err := cfg.FeeTable()
	require.NoError(t, err)

	rate, err := table.Rate(domain.PlatformEbay)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.129)))

	// new platform added alongside defaults
	rate, err = table.Rate(domain.Platform("WHATNOT"))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.11)))

	// defaults still present
	_, err = table.Rate(domain.PlatformCardmarket)
	assert.NoError(t, err)
}

func TestFeeTable_RejectsOutOfRangeRate(t *testing.T) {
	path := writeConfig(t, `
platform_fees:
  EBAY: "1.3"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.FeeTable()
	assert.Error(t, err)
}

func TestFeeTable_RejectsMalformedRate(t *testing.T) {
	path := writeConfig(t, `
platform_fees:
  EBAY: "thirteen percent"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.FeeTable()
	assert.Error(t, err)
}
