package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// spotRepository implements domain.SpotRepository
type spotRepository struct {
	db *DB
}

// NewSpotRepository creates a new spot repository
func NewSpotRepository(db *DB) domain.SpotRepository {
	return &spotRepository{db: db}
}

// Create creates a new spot
func (r *spotRepository) Create(ctx context.Context, s *domain.Spot) error {
	query := `
		INSERT INTO spots (id, name, kind, rating, note)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		string(s.Kind),
		s.Rating,
		s.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to create spot: %w", err)
	}
	return nil
}

// GetByID retrieves a spot by its ID
func (r *spotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	query := `
		SELECT id, name, kind, rating, note
		FROM spots
		WHERE id = $1
	`

	var spot domain.Spot
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&spot.ID,
		&spot.Name,
		&spot.Kind,
		&spot.Rating,
		&spot.Note,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSpotNotFound
		}
		return nil, fmt.Errorf("failed to get spot by ID: %w", err)
	}
	return &spot, nil
}

// List retrieves all spots
func (r *spotRepository) List(ctx context.Context) ([]*domain.Spot, error) {
	query := `
		SELECT id, name, kind, rating, note
		FROM spots
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	defer rows.Close()

	spots := make([]*domain.Spot, 0)
	for rows.Next() {
		var spot domain.Spot
		if err := rows.Scan(&spot.ID, &spot.Name, &spot.Kind, &spot.Rating, &spot.Note); err != nil {
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		spots = append(spots, &spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spots: %w", err)
	}
	return spots, nil
}

// Delete removes a spot
func (r *spotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM spots WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrSpotNotFound
	}
	return nil
}
