package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ParsesResponse(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "etb phantasmal flames sealed", body.Query)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"median": 172.5,
			"min": 150,
			"max": 210.99,
			"salesCount": 14,
			"updatedAt": "2026-04-02T12:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	estimate, err := client.Lookup(context.Background(), "etb phantasmal flames sealed")

	require.NoError(t, err)
	assert.True(t, estimate.Median.Equal(decimal.NewFromFloat(172.5)))
	assert.True(t, estimate.Min.Equal(decimal.NewFromInt(150)))
	assert.True(t, estimate.Max.Equal(decimal.NewFromFloat(210.99)))
	assert.Equal(t, 14, estimate.SalesCount)
	assert.Equal(t, 2026, estimate.UpdatedAt.Year())

	// second lookup within the TTL is served from cache
	_, err = client.Lookup(context.Background(), "etb phantasmal flames sealed")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestLookup_NoSoldItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "No sold items found", "salesCount": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Lookup(context.Background(), "unobtainium box")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No sold items found")
}

func TestLookup_EmptyQuery(t *testing.T) {
	client := NewClient("http://unused.invalid")
	_, err := client.Lookup(context.Background(), "   ")
	assert.Error(t, err)
}
