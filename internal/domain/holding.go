package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents the product line of a collectible holding
type Category string

const (
	CategoryUltraPremium  Category = "ULTRA_PREMIUM_COLLECTION"
	CategoryBundle        Category = "BUNDLE"
	CategoryEliteTrainer  Category = "ELITE_TRAINER_BOX"
	CategoryCollectionBox Category = "COLLECTION_BOX"
)

// PurchaseLot represents one discrete purchase transaction for a holding
type PurchaseLot struct {
	ID        uuid.UUID
	Date      time.Time
	UnitPrice decimal.Decimal
	Quantity  int64
	Source    string // free text, e.g. vendor name ("Amazon", "eBay France")
}

// SaleRecord represents a partial or total sale of a holding's quantity.
// Gross, Fee and Net are computed from the fee table at creation time and
// frozen into the record: later fee-table changes never rewrite them.
type SaleRecord struct {
	ID        uuid.UUID
	Date      time.Time
	UnitPrice decimal.Decimal
	Quantity  int64
	Platform  Platform
	Gross     decimal.Decimal
	Fee       decimal.Decimal
	Net       decimal.Decimal
}

// PricePoint is one snapshot in a holding's price history
type PricePoint struct {
	Date  time.Time
	Price decimal.Decimal
}

// MarketEstimate is a price-lookup result stored verbatim on the holding.
// The engine does not validate or interpret how it was derived.
type MarketEstimate struct {
	Median     decimal.Decimal
	Min        decimal.Decimal
	Max        decimal.Decimal
	SalesCount int
	UpdatedAt  time.Time
}

// Holding represents one tracked collectible product line, aggregating all
// purchase lots and sales for that item.
// CurrentEstimate is a manually maintained market estimate, not a live feed.
type Holding struct {
	ID               uuid.UUID
	Name             string
	Category         Category
	CurrentEstimate  decimal.Decimal
	Lots             []PurchaseLot // non-empty while the holding exists
	Sales            []SaleRecord
	PriceHistory     []PricePoint
	TargetAlertPrice *decimal.Decimal
	MarketQuery      string // free-text query for the price source, empty = not watched
	MarketEstimate   *MarketEstimate
}

// NewSaleRecord builds a sale record with gross/fee/net frozen from the
// given fee rate. Validation of price/quantity bounds is the caller's job.
func NewSaleRecord(date time.Time, unitPrice decimal.Decimal, quantity int64, platform Platform, feeRate decimal.Decimal) SaleRecord {
	gross := unitPrice.Mul(decimal.NewFromInt(quantity))
	fee := gross.Mul(feeRate)
	return SaleRecord{
		ID:        uuid.New(),
		Date:      date,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Platform:  platform,
		Gross:     gross,
		Fee:       fee,
		Net:       gross.Sub(fee),
	}
}

// TotalQuantity returns the sum of quantities across all purchase lots
func (h *Holding) TotalQuantity() int64 {
	var total int64
	for _, lot := range h.Lots {
		total += lot.Quantity
	}
	return total
}

// TotalCost returns the total cost basis: sum of unit price times quantity
// across all purchase lots
func (h *Holding) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range h.Lots {
		total = total.Add(lot.UnitPrice.Mul(decimal.NewFromInt(lot.Quantity)))
	}
	return total
}

// AverageCost returns the weighted-average cost per unit, computed from
// currently-present lots. Returns zero when the holding has no quantity.
func (h *Holding) AverageCost() decimal.Decimal {
	qty := h.TotalQuantity()
	if qty == 0 {
		return decimal.Zero
	}
	return h.TotalCost().Div(decimal.NewFromInt(qty))
}

// SoldQuantity returns the sum of quantities across all sale records
func (h *Holding) SoldQuantity() int64 {
	var total int64
	for _, sale := range h.Sales {
		total += sale.Quantity
	}
	return total
}

// RemainingQuantity returns the unsold quantity on hand.
// Invariant: never negative after a successful mutation.
func (h *Holding) RemainingQuantity() int64 {
	return h.TotalQuantity() - h.SoldQuantity()
}

// FindLot returns the index of the lot with the given ID, or -1
func (h *Holding) FindLot(lotID uuid.UUID) int {
	for i := range h.Lots {
		if h.Lots[i].ID == lotID {
			return i
		}
	}
	return -1
}

// FindSale returns the index of the sale with the given ID, or -1
func (h *Holding) FindSale(saleID uuid.UUID) int {
	for i := range h.Sales {
		if h.Sales[i].ID == saleID {
			return i
		}
	}
	return -1
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if h.Name == "" {
		return ErrEmptyName
	}
	if len(h.Lots) == 0 {
		return ErrNoLots
	}
	if h.CurrentEstimate.IsNegative() {
		return ErrInvalidEstimate
	}
	for _, lot := range h.Lots {
		if lot.Quantity <= 0 || !lot.UnitPrice.IsPositive() {
			return ErrInvalidLot
		}
	}
	for _, sale := range h.Sales {
		if sale.Quantity <= 0 || !sale.UnitPrice.IsPositive() {
			return ErrInvalidSale
		}
	}
	if h.SoldQuantity() > h.TotalQuantity() {
		return &OversellError{Requested: h.SoldQuantity(), Remaining: h.TotalQuantity()}
	}
	return nil
}

// DeepCopy returns an independent copy of the holding, including sub-lists.
// Mutation operations work on a copy so a failed edit leaves the original
// holding untouched.
func (h *Holding) DeepCopy() *Holding {
	out := &Holding{
		ID:              h.ID,
		Name:            h.Name,
		Category:        h.Category,
		CurrentEstimate: h.CurrentEstimate,
		MarketQuery:     h.MarketQuery,
	}
	out.Lots = append([]PurchaseLot(nil), h.Lots...)
	out.Sales = append([]SaleRecord(nil), h.Sales...)
	out.PriceHistory = append([]PricePoint(nil), h.PriceHistory...)
	if h.TargetAlertPrice != nil {
		target := *h.TargetAlertPrice
		out.TargetAlertPrice = &target
	}
	if h.MarketEstimate != nil {
		estimate := *h.MarketEstimate
		out.MarketEstimate = &estimate
	}
	return out
}
