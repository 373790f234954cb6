package spot

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// CreateInput represents the input for creating a spot
type CreateInput struct {
	Name   string
	Kind   domain.SpotKind
	Rating int
	Note   string
}

// Purchase is one purchase lot attributed to a spot, with its holding
// context attached
type Purchase struct {
	Lot             domain.PurchaseLot
	HoldingID       uuid.UUID
	HoldingName     string
	HoldingCategory domain.Category
}

// Service handles purchase-location (spot) operations
type Service struct {
	SpotRepo    domain.SpotRepository
	HoldingRepo domain.HoldingRepository
}

// NewService creates a new spot Service instance
func NewService(spotRepo domain.SpotRepository, holdingRepo domain.HoldingRepository) *Service {
	return &Service{
		SpotRepo:    spotRepo,
		HoldingRepo: holdingRepo,
	}
}

// Create creates a new spot
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Spot, error) {
	spot := &domain.Spot{
		ID:     uuid.New(),
		Name:   input.Name,
		Kind:   input.Kind,
		Rating: input.Rating,
		Note:   input.Note,
	}
	if err := spot.Validate(); err != nil {
		return nil, err
	}
	if err := s.SpotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

// List retrieves all spots
func (s *Service) List(ctx context.Context) ([]*domain.Spot, error) {
	return s.SpotRepo.List(ctx)
}

// Delete removes a spot
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.SpotRepo.Delete(ctx, id)
}

// Purchases collects, across all holdings, the purchase lots whose
// free-text source fuzzy-matches the spot's name. The match is the
// heuristic of the tracker's spots tab: case-insensitive mutual
// containment, so "eBay France" picks up lots sourced from "eBay".
func (s *Service) Purchases(ctx context.Context, spotID uuid.UUID) ([]Purchase, error) {
	spot, err := s.SpotRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	purchases := make([]Purchase, 0)
	for _, h := range holdings {
		for _, lot := range h.Lots {
			if spot.MatchesSource(lot.Source) {
				purchases = append(purchases, Purchase{
					Lot:             lot,
					HoldingID:       h.ID,
					HoldingName:     h.Name,
					HoldingCategory: h.Category,
				})
			}
		}
	}
	return purchases, nil
}
