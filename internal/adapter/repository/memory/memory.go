// Package memory provides in-memory repository implementations, used by
// tests and by the server when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// HoldingRepository is an in-memory implementation of domain.HoldingRepository
type HoldingRepository struct {
	mu       sync.RWMutex
	holdings map[uuid.UUID]*domain.Holding
}

// NewHoldingRepository creates an empty in-memory holding repository
func NewHoldingRepository() *HoldingRepository {
	return &HoldingRepository{holdings: make(map[uuid.UUID]*domain.Holding)}
}

func (r *HoldingRepository) Create(ctx context.Context, h *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.holdings[h.ID] = h.DeepCopy()
	return nil
}

func (r *HoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.holdings[id]
	if !ok {
		return nil, domain.ErrHoldingNotFound
	}
	return h.DeepCopy(), nil
}

func (r *HoldingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Holding, 0, len(r.holdings))
	for _, h := range r.holdings {
		out = append(out, h.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *HoldingRepository) Update(ctx context.Context, h *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[h.ID]; !ok {
		return domain.ErrHoldingNotFound
	}
	r.holdings[h.ID] = h.DeepCopy()
	return nil
}

func (r *HoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holdings[id]; !ok {
		return domain.ErrHoldingNotFound
	}
	delete(r.holdings, id)
	return nil
}

// SpotRepository is an in-memory implementation of domain.SpotRepository
type SpotRepository struct {
	mu    sync.RWMutex
	spots map[uuid.UUID]*domain.Spot
}

// NewSpotRepository creates an empty in-memory spot repository
func NewSpotRepository() *SpotRepository {
	return &SpotRepository{spots: make(map[uuid.UUID]*domain.Spot)}
}

func (r *SpotRepository) Create(ctx context.Context, s *domain.Spot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	spot := *s
	r.spots[s.ID] = &spot
	return nil
}

func (r *SpotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spots[id]
	if !ok {
		return nil, domain.ErrSpotNotFound
	}
	spot := *s
	return &spot, nil
}

func (r *SpotRepository) List(ctx context.Context) ([]*domain.Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Spot, 0, len(r.spots))
	for _, s := range r.spots {
		spot := *s
		out = append(out, &spot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SpotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spots[id]; !ok {
		return domain.ErrSpotNotFound
	}
	delete(r.spots, id)
	return nil
}
