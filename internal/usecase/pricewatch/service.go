package pricewatch

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
	holdingusecase "github.com/cardfolio/cardfolio-backend/internal/usecase/holding"
)

// RefreshResult reports the outcome of a batch refresh
type RefreshResult struct {
	Updated int
	Skipped int // holdings without a market query
	Failed  int
}

// Service refreshes holdings' market estimates from an external price
// source. The lookup result is stored verbatim; the median is applied as
// the new current estimate through the holding service, so price history
// and target alerts behave exactly as for a manual estimate edit.
type Service struct {
	HoldingRepo domain.HoldingRepository
	Source      domain.PriceSource
	Holdings    *holdingusecase.Service
}

// NewService creates a new pricewatch Service instance
func NewService(holdingRepo domain.HoldingRepository, source domain.PriceSource, holdings *holdingusecase.Service) *Service {
	return &Service{
		HoldingRepo: holdingRepo,
		Source:      source,
		Holdings:    holdings,
	}
}

// Refresh updates one holding from the price source.
// Returns whether the update triggered the holding's target alert.
func (s *Service) Refresh(ctx context.Context, holdingID uuid.UUID) (bool, error) {
	h, err := s.HoldingRepo.GetByID(ctx, holdingID)
	if err != nil {
		return false, err
	}
	if h.MarketQuery == "" {
		return false, domain.ErrNoMarketQuery
	}

	estimate, err := s.Source.Lookup(ctx, h.MarketQuery)
	if err != nil {
		return false, err
	}

	// Store the lookup result verbatim before touching the estimate
	stored := h.DeepCopy()
	stored.MarketEstimate = estimate
	if err := s.HoldingRepo.Update(ctx, stored); err != nil {
		return false, err
	}

	_, triggered, err := s.Holdings.UpdateEstimate(ctx, holdingID, estimate.Median, estimate.UpdatedAt)
	return triggered, err
}

// RefreshAll updates every holding that has a market query. Per-holding
// failures are logged and counted, not fatal: one dead query must not
// stall the whole batch.
func (s *Service) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{}
	for _, h := range holdings {
		if h.MarketQuery == "" {
			result.Skipped++
			continue
		}
		if _, err := s.Refresh(ctx, h.ID); err != nil {
			log.Printf("price refresh failed for holding %s (%s): %v", h.ID, h.Name, err)
			result.Failed++
			continue
		}
		result.Updated++
	}
	return result, nil
}
