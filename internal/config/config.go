package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// Config holds the file-based service configuration. Database and secret
// settings stay in environment variables; the file carries what a user
// actually tunes: the platform fee table and the price source endpoint.
type Config struct {
	// PlatformFees maps platform keys to fee rates in [0,1], e.g.
	// EBAY: "0.13". Platforms listed here replace the built-in defaults.
	PlatformFees map[string]string `yaml:"platform_fees"`

	// PriceSourceURL is the endpoint of the sold-listings price service.
	// Empty disables price refresh.
	PriceSourceURL string `yaml:"price_source_url"`

	// Currency is the display currency code, default EUR
	Currency string `yaml:"currency"`
}

// Load reads the config file at path. A missing file is not an error:
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{Currency: "EUR"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	return cfg, nil
}

// FeeTable builds the effective fee table: built-in defaults overlaid
// with the rates from the config file. Rates outside [0,1] are rejected.
func (c *Config) FeeTable() (domain.FeeTable, error) {
	table := domain.DefaultFeeTable()
	for platform, raw := range c.PlatformFees {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fee rate %q for platform %s: %w", raw, platform, err)
		}
		table[domain.Platform(platform)] = rate
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
