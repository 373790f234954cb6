package domain

import (
	"errors"
	"fmt"
)

// Validation and lookup failures surfaced synchronously to the caller.
// None of these are transient; the integration layer presents them as
// rejections of the attempted edit, with prior state unchanged.
var (
	ErrEmptyName       = errors.New("holding name cannot be empty")
	ErrNoLots          = errors.New("holding must have at least one purchase lot")
	ErrInvalidLot      = errors.New("lot unit price and quantity must be positive")
	ErrInvalidSale     = errors.New("sale unit price and quantity must be positive")
	ErrInvalidEstimate = errors.New("estimate price cannot be negative")
	ErrUnknownPlatform = errors.New("unknown sale platform")
	ErrNoMarketQuery   = errors.New("holding has no market query configured")

	ErrHoldingNotFound = errors.New("holding not found")
	ErrLotNotFound     = errors.New("purchase lot not found")
	ErrSaleNotFound    = errors.New("sale record not found")
	ErrSpotNotFound    = errors.New("spot not found")
)

// OversellError is returned when an operation would make the sold quantity
// exceed the total purchased quantity. The operation is rejected, never
// clamped, since clamping would corrupt realized P&L accounting.
type OversellError struct {
	Requested int64
	Remaining int64
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("cannot sell %d units: only %d remaining", e.Requested, e.Remaining)
}
