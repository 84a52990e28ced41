package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakwatch/internal/model"
)

type testLogger struct{}

func (testLogger) Debugf(format string, v ...any) {}
func (testLogger) Infof(format string, v ...any)  {}
func (testLogger) Errorf(format string, v ...any) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return Client{
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: ts.URL,
		Logger:  testLogger{},
	}
}

func testConfig() APIConfig {
	return NewAPIConfig(model.DefaultSettings(), model.FallbackExchangeRates(), false)
}

func TestSearchItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			SearchTerm string    `json:"searchTerm"`
			Config     APIConfig `json:"config"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dunk", req.SearchTerm)
		assert.Equal(t, "EUR", req.Config.Currency.Code)

		require.NoError(t, json.NewEncoder(w).Encode([]model.Item{
			{ID: "DD1391-100", Name: "Dunk Low Panda"},
		}))
	})

	items, err := c.SearchItems(context.Background(), "dunk", testConfig())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "DD1391-100", items[0].ID)
}

func TestGetItemPrices_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.GetItemPrices(context.Background(), model.Item{ID: "X", Name: "Item X"}, testConfig())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetItemPrices_RejectsInvalidResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Missing the required name field.
		require.NoError(t, json.NewEncoder(w).Encode(model.Item{ID: "X"}))
	})

	_, err := c.GetItemPrices(context.Background(), model.Item{ID: "X", Name: "Item X"}, testConfig())
	assert.Error(t, err)
}

func TestGetItemPrices_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	})

	_, err := c.GetItemPrices(context.Background(), model.Item{ID: "X", Name: "Item X"}, testConfig())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrItemNotFound))
	assert.Contains(t, err.Error(), "500")
}

func TestGetExchangeRates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchangerates", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(model.ExchangeRates{
			USD: 1.2, GBP: 0.9, CHF: 1.1, NOK: 10.5,
		}))
	})

	rates, err := c.GetExchangeRates(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.2, rates.USD)
}

func TestGetExchangeRates_RejectsInvalidResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(model.ExchangeRates{USD: 1.2}))
	})

	_, err := c.GetExchangeRates(context.Background(), testConfig())
	assert.Error(t, err)
}
