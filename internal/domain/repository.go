package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingRepository defines the interface for holding persistence operations.
// Implementations must preserve the purchase-lot and sale-record sub-lists
// verbatim across a save/load round trip.
type HoldingRepository interface {
	// Create creates a new holding with its sub-lists
	Create(ctx context.Context, h *Holding) error

	// GetByID retrieves a holding by its ID, including lots, sales and
	// price history. Returns ErrHoldingNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// List retrieves all holdings
	List(ctx context.Context) ([]*Holding, error)

	// Update replaces the holding and its sub-lists atomically
	Update(ctx context.Context, h *Holding) error

	// Delete removes the holding and its sub-lists.
	// Returns ErrHoldingNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SpotRepository defines the interface for spot persistence operations
type SpotRepository interface {
	Create(ctx context.Context, s *Spot) error

	// GetByID returns ErrSpotNotFound if the spot does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Spot, error)

	List(ctx context.Context) ([]*Spot, error)

	// Delete returns ErrSpotNotFound if the spot does not exist
	Delete(ctx context.Context, id uuid.UUID) error
}

// PriceSource supplies a market price estimate for a free-text query.
// The engine stores the result verbatim; how the estimate was derived is
// the source's business.
type PriceSource interface {
	Lookup(ctx context.Context, query string) (*MarketEstimate, error)
}

// AlertSink receives "target price reached" events. Delivery (push, mail,
// in-app) is entirely the sink's concern.
type AlertSink interface {
	TargetReached(ctx context.Context, holding *Holding, price decimal.Decimal)
}
