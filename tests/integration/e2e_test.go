//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfolio/cardfolio-backend/internal/adapter/repository/postgres"
)

var (
	db       *postgres.DB
	baseURL  string
	apiToken string
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Connect to Database
	dbConnStr := getDBConnectionString()
	var err error
	db, err = postgres.NewDB(dbConnStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	// 2. Locate HTTP server
	baseURL = getServerURL()
	apiToken = os.Getenv("API_TOKEN")
	if apiToken == "" {
		apiToken = "dev-token"
	}

	// 3. Self-Healing Setup: create the schema if it doesn't exist
	if err := setupSchema(ctx, db); err != nil {
		panic(fmt.Sprintf("Failed to setup schema: %v", err))
	}

	// Run tests
	code := m.Run()

	os.Exit(code)
}

// setupSchema creates the required tables if they don't exist
func setupSchema(ctx context.Context, db *postgres.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS holdings (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			current_estimate DECIMAL(20, 8) NOT NULL DEFAULT 0,
			target_alert_price DECIMAL(20, 8),
			market_query TEXT,
			market_median DECIMAL(20, 8),
			market_min DECIMAL(20, 8),
			market_max DECIMAL(20, 8),
			market_sales_count BIGINT,
			market_updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS purchase_lots (
			id UUID PRIMARY KEY,
			holding_id UUID NOT NULL REFERENCES holdings(id) ON DELETE CASCADE,
			date TIMESTAMPTZ NOT NULL,
			unit_price DECIMAL(20, 8) NOT NULL,
			quantity BIGINT NOT NULL,
			source TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sale_records (
			id UUID PRIMARY KEY,
			holding_id UUID NOT NULL REFERENCES holdings(id) ON DELETE CASCADE,
			date TIMESTAMPTZ NOT NULL,
			unit_price DECIMAL(20, 8) NOT NULL,
			quantity BIGINT NOT NULL,
			platform TEXT NOT NULL,
			gross DECIMAL(20, 8) NOT NULL,
			fee DECIMAL(20, 8) NOT NULL,
			net DECIMAL(20, 8) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			holding_id UUID NOT NULL REFERENCES holdings(id) ON DELETE CASCADE,
			date TIMESTAMPTZ NOT NULL,
			price DECIMAL(20, 8) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS spots (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			rating INT NOT NULL DEFAULT 0,
			note TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// getDBConnectionString returns the database connection string from environment or defaults
func getDBConnectionString() string {
	connStr := os.Getenv("DB_CONN_STR")
	if connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}

	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		password = "postgres"
	}

	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "cardfolio"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// getServerURL returns the HTTP server base URL from environment or defaults
func getServerURL() string {
	url := os.Getenv("SERVER_URL")
	if url == "" {
		url = "http://localhost:8080"
	}
	return url
}

// call performs an authenticated JSON request against the running server and
// decodes the response body into out (when out is non-nil).
func call(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type holdingPayload struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CurrentEstimate string `json:"currentEstimate"`
	Lots            []struct {
		ID       string `json:"id"`
		Quantity int64  `json:"quantity"`
	} `json:"lots"`
	Sales []struct {
		ID    string `json:"id"`
		Gross string `json:"grossAmount"`
		Fee   string `json:"feeAmount"`
		Net   string `json:"netAmount"`
	} `json:"sales"`
	Metrics *struct {
		RemainingQuantity int64  `json:"remainingQuantity"`
		RealizedPnL       string `json:"realizedPnl"`
		TotalPnL          string `json:"totalPnl"`
	} `json:"metrics"`
	AlertTriggered bool `json:"alertTriggered"`
}

// TestAuthRequired verifies that requests without a valid token are rejected
func TestAuthRequired(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, baseURL+"/holdings", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestEndToEndFlow tests the complete flow: Purchase -> Sale -> Estimate -> Delete
func TestEndToEndFlow(t *testing.T) {
	ctx := context.Background()

	// Step A: create a holding with an initial lot
	var created holdingPayload
	status := call(t, http.MethodPost, "/holdings", map[string]any{
		"name":            "Brilliant Stars Booster Box",
		"category":        "Bundle",
		"currentEstimate": "150",
		"initialLot": map[string]any{
			"date":      "2025-11-10",
			"unitPrice": "100",
			"quantity":  3,
			"source":    "Game Mania Antwerpen",
		},
	}, &created)
	require.Equal(t, http.StatusCreated, status, "Create holding should succeed")
	require.Len(t, created.Lots, 1)

	t.Cleanup(func() {
		call(t, http.MethodDelete, "/holdings/"+created.ID+"/lots/"+created.Lots[0].ID, nil, nil)
	})

	// Verify the lot row landed in the database
	var lotCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM purchase_lots WHERE holding_id = $1`, created.ID,
	).Scan(&lotCount)
	require.NoError(t, err, "Should be able to query purchase lots")
	assert.Equal(t, 1, lotCount, "Holding should have one purchase lot")

	// Step B: record a sale on ebay and verify the frozen amounts
	var afterSale holdingPayload
	status = call(t, http.MethodPost, "/holdings/"+created.ID+"/sales", map[string]any{
		"date":      "2025-12-01",
		"unitPrice": "140",
		"quantity":  1,
		"platform":  "ebay",
	}, &afterSale)
	require.Equal(t, http.StatusCreated, status, "Record sale should succeed")
	require.Len(t, afterSale.Sales, 1)

	var grossStr, feeStr, netStr string
	err = db.QueryRowContext(ctx,
		`SELECT gross, fee, net FROM sale_records WHERE id = $1`, afterSale.Sales[0].ID,
	).Scan(&grossStr, &feeStr, &netStr)
	require.NoError(t, err, "Should be able to query the sale record")

	gross, err := decimal.NewFromString(grossStr)
	require.NoError(t, err)
	net, err := decimal.NewFromString(netStr)
	require.NoError(t, err)
	assert.True(t, gross.Equal(decimal.NewFromInt(140)), "Gross should be unit price x quantity")
	assert.True(t, net.Equal(decimal.RequireFromString("121.8")), "Net should be gross minus the frozen fee")

	// Step C: overselling the remaining quantity must be rejected, not clamped
	status = call(t, http.MethodPost, "/holdings/"+created.ID+"/sales", map[string]any{
		"date":      "2025-12-02",
		"unitPrice": "140",
		"quantity":  5,
		"platform":  "ebay",
	}, nil)
	assert.Equal(t, http.StatusConflict, status, "Oversell should be rejected")

	var saleCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sale_records WHERE holding_id = $1`, created.ID,
	).Scan(&saleCount)
	require.NoError(t, err)
	assert.Equal(t, 1, saleCount, "Rejected sale should leave no row behind")

	// Step D: update the estimate and verify the price history row
	var afterEstimate holdingPayload
	status = call(t, http.MethodPut, "/holdings/"+created.ID+"/estimate", map[string]any{
		"price": "185",
		"asOf":  "2026-01-15",
	}, &afterEstimate)
	require.Equal(t, http.StatusOK, status, "Update estimate should succeed")
	assert.Equal(t, "185", afterEstimate.CurrentEstimate)

	var historyCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM price_history WHERE holding_id = $1`, created.ID,
	).Scan(&historyCount)
	require.NoError(t, err)
	assert.Equal(t, 1, historyCount, "Estimate update should append a price point")

	// Step E: deleting the only lot removes the holding and cascades
	status = call(t, http.MethodDelete, "/holdings/"+created.ID+"/sales/"+afterSale.Sales[0].ID, nil, nil)
	require.Equal(t, http.StatusOK, status, "Delete sale should succeed")

	status = call(t, http.MethodDelete, "/holdings/"+created.ID+"/lots/"+created.Lots[0].ID, nil, nil)
	require.Equal(t, http.StatusNoContent, status, "Deleting the last lot should remove the holding")

	var holdingCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM holdings WHERE id = $1`, created.ID,
	).Scan(&holdingCount)
	require.NoError(t, err)
	assert.Equal(t, 0, holdingCount, "Holding row should be gone")

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM price_history WHERE holding_id = $1`, created.ID,
	).Scan(&historyCount)
	require.NoError(t, err)
	assert.Equal(t, 0, historyCount, "Child rows should cascade on delete")
}
