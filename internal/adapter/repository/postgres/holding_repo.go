package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// Create creates a new holding with all its sub-lists in a database transaction
func (r *holdingRepository) Create(ctx context.Context, h *domain.Holding) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertHolding(ctx, dbTx, h); err != nil {
		return err
	}
	if err := insertSubLists(ctx, dbTx, h); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a holding by its ID, including lots, sales and price history
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT id, name, category, current_estimate, target_alert_price, market_query,
		       market_median, market_min, market_max, market_sales_count, market_updated_at
		FROM holdings
		WHERE id = $1
	`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, fmt.Errorf("failed to get holding by ID: %w", err)
	}

	if err := r.loadSubLists(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// List retrieves all holdings with their sub-lists
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT id, name, category, current_estimate, target_alert_price, market_query,
		       market_median, market_min, market_max, market_sales_count, market_updated_at
		FROM holdings
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	for _, h := range holdings {
		if err := r.loadSubLists(ctx, h); err != nil {
			return nil, err
		}
	}
	return holdings, nil
}

// Update replaces the holding row and its sub-lists in a database transaction.
// Sub-lists are rewritten wholesale so the stored state always mirrors the
// domain object verbatim.
func (r *holdingRepository) Update(ctx context.Context, h *domain.Holding) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE holdings
		SET name = $2, category = $3, current_estimate = $4, target_alert_price = $5,
		    market_query = $6, market_median = $7, market_min = $8, market_max = $9,
		    market_sales_count = $10, market_updated_at = $11
		WHERE id = $1
	`
	result, err := dbTx.ExecContext(ctx, updateQuery, holdingArgs(h)...)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}

	for _, table := range []string{"purchase_lots", "sale_records", "price_history"} {
		if _, err := dbTx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE holding_id = $1", table), h.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertSubLists(ctx, dbTx, h); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the holding and its sub-lists (cascaded by schema)
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM holdings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanHolding(row scanner) (*domain.Holding, error) {
	var h domain.Holding
	var estimateStr string
	var targetStr, medianStr, minStr, maxStr sql.NullString
	var salesCount sql.NullInt64
	var updatedAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Category,
		&estimateStr,
		&targetStr,
		&h.MarketQuery,
		&medianStr,
		&minStr,
		&maxStr,
		&salesCount,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	estimate, err := decimal.NewFromString(estimateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_estimate: %w", err)
	}
	h.CurrentEstimate = estimate

	if targetStr.Valid {
		target, err := decimal.NewFromString(targetStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse target_alert_price: %w", err)
		}
		h.TargetAlertPrice = &target
	}

	if medianStr.Valid {
		median, err := decimal.NewFromString(medianStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse market_median: %w", err)
		}
		min, err := decimal.NewFromString(minStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse market_min: %w", err)
		}
		max, err := decimal.NewFromString(maxStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse market_max: %w", err)
		}
		h.MarketEstimate = &domain.MarketEstimate{
			Median:     median,
			Min:        min,
			Max:        max,
			SalesCount: int(salesCount.Int64),
			UpdatedAt:  updatedAt.Time,
		}
	}

	return &h, nil
}

func holdingArgs(h *domain.Holding) []any {
	var target any
	if h.TargetAlertPrice != nil {
		target = h.TargetAlertPrice.String()
	}
	var median, min, max, salesCount, updatedAt any
	if h.MarketEstimate != nil {
		median = h.MarketEstimate.Median.String()
		min = h.MarketEstimate.Min.String()
		max = h.MarketEstimate.Max.String()
		salesCount = h.MarketEstimate.SalesCount
		updatedAt = h.MarketEstimate.UpdatedAt
	}
	return []any{
		h.ID,
		h.Name,
		string(h.Category),
		h.CurrentEstimate.String(),
		target,
		h.MarketQuery,
		median,
		min,
		max,
		salesCount,
		updatedAt,
	}
}

func insertHolding(ctx context.Context, dbTx *sql.Tx, h *domain.Holding) error {
	query := `
		INSERT INTO holdings (id, name, category, current_estimate, target_alert_price, market_query,
		                      market_median, market_min, market_max, market_sales_count, market_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := dbTx.ExecContext(ctx, query, holdingArgs(h)...); err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

func insertSubLists(ctx context.Context, dbTx *sql.Tx, h *domain.Holding) error {
	lotQuery := `
		INSERT INTO purchase_lots (id, holding_id, date, unit_price, quantity, source)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, lot := range h.Lots {
		_, err := dbTx.ExecContext(ctx, lotQuery,
			lot.ID,
			h.ID,
			lot.Date,
			lot.UnitPrice.String(),
			lot.Quantity,
			lot.Source,
		)
		if err != nil {
			return fmt.Errorf("failed to insert purchase lot: %w", err)
		}
	}

	saleQuery := `
		INSERT INTO sale_records (id, holding_id, date, unit_price, quantity, platform, gross, fee, net)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, sale := range h.Sales {
		_, err := dbTx.ExecContext(ctx, saleQuery,
			sale.ID,
			h.ID,
			sale.Date,
			sale.UnitPrice.String(),
			sale.Quantity,
			string(sale.Platform),
			sale.Gross.String(),
			sale.Fee.String(),
			sale.Net.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert sale record: %w", err)
		}
	}

	historyQuery := `
		INSERT INTO price_history (holding_id, date, price)
		VALUES ($1, $2, $3)
	`
	for _, point := range h.PriceHistory {
		if _, err := dbTx.ExecContext(ctx, historyQuery, h.ID, point.Date, point.Price.String()); err != nil {
			return fmt.Errorf("failed to insert price history point: %w", err)
		}
	}

	return nil
}

func (r *holdingRepository) loadSubLists(ctx context.Context, h *domain.Holding) error {
	lotRows, err := r.db.QueryContext(ctx, `
		SELECT id, date, unit_price, quantity, source
		FROM purchase_lots
		WHERE holding_id = $1
		ORDER BY date, id
	`, h.ID)
	if err != nil {
		return fmt.Errorf("failed to load purchase lots: %w", err)
	}
	defer lotRows.Close()

	for lotRows.Next() {
		var lot domain.PurchaseLot
		var priceStr string
		if err := lotRows.Scan(&lot.ID, &lot.Date, &priceStr, &lot.Quantity, &lot.Source); err != nil {
			return fmt.Errorf("failed to scan purchase lot: %w", err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return fmt.Errorf("failed to parse lot unit_price: %w", err)
		}
		lot.UnitPrice = price
		h.Lots = append(h.Lots, lot)
	}
	if err := lotRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate purchase lots: %w", err)
	}

	saleRows, err := r.db.QueryContext(ctx, `
		SELECT id, date, unit_price, quantity, platform, gross, fee, net
		FROM sale_records
		WHERE holding_id = $1
		ORDER BY date, id
	`, h.ID)
	if err != nil {
		return fmt.Errorf("failed to load sale records: %w", err)
	}
	defer saleRows.Close()

	for saleRows.Next() {
		var sale domain.SaleRecord
		var priceStr, grossStr, feeStr, netStr string
		if err := saleRows.Scan(&sale.ID, &sale.Date, &priceStr, &sale.Quantity, &sale.Platform, &grossStr, &feeStr, &netStr); err != nil {
			return fmt.Errorf("failed to scan sale record: %w", err)
		}
		for _, pair := range []struct {
			dst *decimal.Decimal
			src string
		}{
			{&sale.UnitPrice, priceStr},
			{&sale.Gross, grossStr},
			{&sale.Fee, feeStr},
			{&sale.Net, netStr},
		} {
			value, err := decimal.NewFromString(pair.src)
			if err != nil {
				return fmt.Errorf("failed to parse sale amount: %w", err)
			}
			*pair.dst = value
		}
		h.Sales = append(h.Sales, sale)
	}
	if err := saleRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate sale records: %w", err)
	}

	historyRows, err := r.db.QueryContext(ctx, `
		SELECT date, price
		FROM price_history
		WHERE holding_id = $1
		ORDER BY date
	`, h.ID)
	if err != nil {
		return fmt.Errorf("failed to load price history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var point domain.PricePoint
		var priceStr string
		if err := historyRows.Scan(&point.Date, &priceStr); err != nil {
			return fmt.Errorf("failed to scan price history point: %w", err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return fmt.Errorf("failed to parse price history price: %w", err)
		}
		point.Price = price
		h.PriceHistory = append(h.PriceHistory, point)
	}
	if err := historyRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate price history: %w", err)
	}

	return nil
}
