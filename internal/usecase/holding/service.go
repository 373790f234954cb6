package holding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
	"github.com/cardfolio/cardfolio-backend/internal/usecase/valuation"
)

// LotInput represents the input for recording or editing a purchase lot
type LotInput struct {
	Date      time.Time
	UnitPrice decimal.Decimal
	Quantity  int64
	Source    string
}

// SaleInput represents the input for recording a sale
type SaleInput struct {
	Date      time.Time
	UnitPrice decimal.Decimal
	Quantity  int64
	Platform  domain.Platform
}

// CreateInput represents the input for creating a holding.
// A holding always starts with exactly one initial purchase lot.
type CreateInput struct {
	Name            string
	Category        domain.Category
	CurrentEstimate decimal.Decimal
	MarketQuery     string
	InitialLot      LotInput
}

// HoldingWithMetrics pairs a holding with its derived valuation figures
type HoldingWithMetrics struct {
	Holding *domain.Holding
	Metrics valuation.Metrics
}

// Service handles all holding mutations. Every operation is all-or-nothing:
// validation failures surface before anything is saved, so prior state is
// never partially mutated. Writes per holding are assumed to be serialized
// by the caller; the service provides no locking of its own.
type Service struct {
	HoldingRepo domain.HoldingRepository
	Fees        domain.FeeTable
	Alerts      domain.AlertSink // optional
}

// NewService creates a new holding Service instance
func NewService(holdingRepo domain.HoldingRepository, fees domain.FeeTable, alerts domain.AlertSink) *Service {
	return &Service{
		HoldingRepo: holdingRepo,
		Fees:        fees,
		Alerts:      alerts,
	}
}

func newLot(input LotInput) (domain.PurchaseLot, error) {
	if input.Quantity <= 0 || !input.UnitPrice.IsPositive() {
		return domain.PurchaseLot{}, domain.ErrInvalidLot
	}
	return domain.PurchaseLot{
		ID:        uuid.New(),
		Date:      input.Date,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
		Source:    input.Source,
	}, nil
}

// Create creates a holding with its initial purchase lot
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Holding, error) {
	lot, err := newLot(input.InitialLot)
	if err != nil {
		return nil, err
	}

	h := &domain.Holding{
		ID:              uuid.New(),
		Name:            input.Name,
		Category:        input.Category,
		CurrentEstimate: input.CurrentEstimate,
		MarketQuery:     input.MarketQuery,
		Lots:            []domain.PurchaseLot{lot},
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	if err := s.HoldingRepo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Get retrieves a holding with its computed metrics
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*HoldingWithMetrics, error) {
	h, err := s.HoldingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HoldingWithMetrics{Holding: h, Metrics: valuation.ComputeHoldingMetrics(h)}, nil
}

// List retrieves all holdings with their computed metrics
func (s *Service) List(ctx context.Context) ([]*HoldingWithMetrics, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*HoldingWithMetrics, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, &HoldingWithMetrics{Holding: h, Metrics: valuation.ComputeHoldingMetrics(h)})
	}
	return out, nil
}

// Summary computes the aggregate portfolio summary across all holdings
func (s *Service) Summary(ctx context.Context) (*valuation.Summary, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := valuation.ComputePortfolioSummary(holdings)
	return &summary, nil
}

// RecordPurchase appends a new purchase lot to a holding.
// Prior lots and recorded sales are untouched; only the recomputed
// average cost changes.
func (s *Service) RecordPurchase(ctx context.Context, holdingID uuid.UUID, input LotInput) (*domain.Holding, error) {
	lot, err := newLot(input)
	if err != nil {
		return nil, err
	}

	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	updated := h.DeepCopy()
	updated.Lots = append(updated.Lots, lot)

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateLot edits an existing purchase lot in place.
// The edit is rejected with an OversellError if shrinking the lot would
// leave recorded sales exceeding the holding's total quantity.
func (s *Service) UpdateLot(ctx context.Context, holdingID, lotID uuid.UUID, input LotInput) (*domain.Holding, error) {
	if input.Quantity <= 0 || !input.UnitPrice.IsPositive() {
		return nil, domain.ErrInvalidLot
	}

	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	idx := h.FindLot(lotID)
	if idx < 0 {
		return nil, domain.ErrLotNotFound
	}

	updated := h.DeepCopy()
	updated.Lots[idx].Date = input.Date
	updated.Lots[idx].UnitPrice = input.UnitPrice
	updated.Lots[idx].Quantity = input.Quantity
	updated.Lots[idx].Source = input.Source

	if sold := updated.SoldQuantity(); sold > updated.TotalQuantity() {
		return nil, &domain.OversellError{Requested: sold, Remaining: updated.TotalQuantity()}
	}

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLot removes a purchase lot. Removing the last lot deletes the
// holding entirely (a holding never persists without lots); the returned
// holding is nil in that case.
//
// Policy for lots already covered by sales: the deletion is rejected with
// an OversellError when it would make the sold quantity exceed what
// remains purchased. Sales are never silently voided.
func (s *Service) DeleteLot(ctx context.Context, holdingID, lotID uuid.UUID) (*domain.Holding, error) {
	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	idx := h.FindLot(lotID)
	if idx < 0 {
		return nil, domain.ErrLotNotFound
	}

	updated := h.DeepCopy()
	updated.Lots = append(updated.Lots[:idx], updated.Lots[idx+1:]...)

	if sold := updated.SoldQuantity(); sold > updated.TotalQuantity() {
		return nil, &domain.OversellError{Requested: sold, Remaining: updated.TotalQuantity()}
	}

	// Last lot gone: the whole holding goes with it. Sales cannot remain
	// at this point, the oversell check above already rejected that.
	if len(updated.Lots) == 0 {
		if err := s.HoldingRepo.Delete(ctx, holdingID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordSale records a partial or total sale. The platform fee is computed
// from the fee table once, here, and frozen into the record: later changes
// to the table never alter historical sales.
// Selling more than the remaining quantity is rejected with an
// OversellError, never clamped.
func (s *Service) RecordSale(ctx context.Context, holdingID uuid.UUID, input SaleInput) (*domain.Holding, error) {
	if input.Quantity <= 0 || !input.UnitPrice.IsPositive() {
		return nil, domain.ErrInvalidSale
	}

	feeRate, err := s.Fees.Rate(input.Platform)
	if err != nil {
		return nil, err
	}

	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	if remaining := h.RemainingQuantity(); input.Quantity > remaining {
		return nil, &domain.OversellError{Requested: input.Quantity, Remaining: remaining}
	}

	updated := h.DeepCopy()
	updated.Sales = append(updated.Sales, domain.NewSaleRecord(input.Date, input.UnitPrice, input.Quantity, input.Platform, feeRate))

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSale removes a sale record, restoring the sold quantity to the
// remaining pool
func (s *Service) DeleteSale(ctx context.Context, holdingID, saleID uuid.UUID) (*domain.Holding, error) {
	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	idx := h.FindSale(saleID)
	if idx < 0 {
		return nil, domain.ErrSaleNotFound
	}

	updated := h.DeepCopy()
	updated.Sales = append(updated.Sales[:idx], updated.Sales[idx+1:]...)

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateEstimate sets the holding's current market estimate and appends a
// snapshot to its price history. Returns whether the target alert price
// was reached by this update; if an AlertSink is configured the event is
// also forwarded to it, exactly once per triggering call. Delivery is the
// sink's concern.
func (s *Service) UpdateEstimate(ctx context.Context, holdingID uuid.UUID, price decimal.Decimal, asOf time.Time) (*domain.Holding, bool, error) {
	if price.IsNegative() {
		return nil, false, domain.ErrInvalidEstimate
	}

	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, false, err
	}

	updated := h.DeepCopy()
	updated.CurrentEstimate = price
	updated.PriceHistory = append(updated.PriceHistory, domain.PricePoint{Date: asOf, Price: price})

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, false, err
	}

	triggered := updated.TargetAlertPrice != nil && price.GreaterThanOrEqual(*updated.TargetAlertPrice)
	if triggered && s.Alerts != nil {
		s.Alerts.TargetReached(ctx, updated, price)
	}
	return updated, triggered, nil
}

// SetTargetPrice sets or clears (nil) the holding's target alert price
func (s *Service) SetTargetPrice(ctx context.Context, holdingID uuid.UUID, target *decimal.Decimal) (*domain.Holding, error) {
	if target != nil && target.IsNegative() {
		return nil, domain.ErrInvalidEstimate
	}

	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}

	updated := h.DeepCopy()
	if target != nil {
		value := *target
		updated.TargetAlertPrice = &value
	} else {
		updated.TargetAlertPrice = nil
	}

	if err := s.HoldingRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
