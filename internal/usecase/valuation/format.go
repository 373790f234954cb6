package valuation

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a decimal amount as a localized currency string,
// e.g. FormatAmount(d, "EUR") -> "€121.80". This is the single place
// where amounts are rounded: everything upstream stays at full precision.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(money.EUR)
	}
	minor := amount.Shift(int32(currency.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency.Code).Display()
}

// FormatPercent renders a percentage value with one decimal place, the
// precision the tracker displays returns at, e.g. "50.0".
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1)
}
