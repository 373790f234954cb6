package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Platform identifies where a sale took place. It keys into the fee table.
type Platform string

const (
	PlatformDirect     Platform = "DIRECT" // in-person sale, no fee
	PlatformVinted     Platform = "VINTED"
	PlatformCardmarket Platform = "CARDMARKET"
	PlatformEbay       Platform = "EBAY"
)

// FeeTable maps a sale platform to the percentage cut it takes on gross
// proceeds, expressed as a rate in [0,1]. The table is external config:
// sale records freeze their amounts at creation time, so editing the table
// never retroactively alters historical sales.
type FeeTable map[Platform]decimal.Decimal

// DefaultFeeTable returns the built-in fee rates, used when no config
// file overrides them.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		PlatformDirect:     decimal.Zero,
		PlatformVinted:     decimal.Zero,
		PlatformCardmarket: decimal.NewFromFloat(0.05),
		PlatformEbay:       decimal.NewFromFloat(0.13),
	}
}

// Rate returns the fee rate for a platform.
// Returns ErrUnknownPlatform if the platform is not in the table.
func (t FeeTable) Rate(p Platform) (decimal.Decimal, error) {
	rate, ok := t[p]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	return rate, nil
}

// Validate ensures every rate is in [0,1]
func (t FeeTable) Validate() error {
	one := decimal.NewFromInt(1)
	for platform, rate := range t {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return fmt.Errorf("fee rate for platform %s must be between 0 and 1, got %s", platform, rate)
		}
	}
	return nil
}
