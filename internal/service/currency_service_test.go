package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedCache struct {
	rates map[string]float64
	puts  map[string]float64
}

func newFixedCache(rates map[string]float64) *fixedCache {
	return &fixedCache{rates: rates, puts: make(map[string]float64)}
}

func (c *fixedCache) Get(key string) (float64, bool) {
	rate, ok := c.rates[key]
	return rate, ok
}

func (c *fixedCache) Put(key string, rate float64) {
	c.puts[key] = rate
}

func newTestCurrencyService(apiURL string, cache RateCache) *CurrencyService {
	fallback := map[string]float64{"USD": 10.5, "EUR": 11.2}
	return NewCurrencyService(apiURL, time.Second, cache, fallback, zap.NewNop())
}

func TestRateSameCurrency(t *testing.T) {
	// An unroutable URL proves no network call happens.
	svc := newTestCurrencyService("http://127.0.0.1:0", NewMemoryRateCache())
	assert.Equal(t, 1.0, svc.Rate(context.Background(), "SEK", "SEK"))
}

func TestRateCacheHit(t *testing.T) {
	cache := newFixedCache(map[string]float64{"USD_SEK": 9.99})
	svc := newTestCurrencyService("http://127.0.0.1:0", cache)

	assert.Equal(t, 9.99, svc.Rate(context.Background(), "USD", "SEK"))
	assert.Empty(t, cache.puts)
}

func TestRateLiveLookup(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Write([]byte(`{"rates":{"SEK":10.42}}`))
	}))
	defer server.Close()

	cache := newFixedCache(nil)
	svc := newTestCurrencyService(server.URL, cache)

	rate := svc.Rate(context.Background(), "USD", "SEK")
	assert.Equal(t, 10.42, rate)
	assert.Equal(t, "/latest?from=USD&to=SEK", gotPath)
	assert.Equal(t, 10.42, cache.puts["USD_SEK"])
}

func TestRateFallbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := newFixedCache(nil)
	svc := newTestCurrencyService(server.URL, cache)

	assert.Equal(t, 10.5, svc.Rate(context.Background(), "USD", "SEK"))
	assert.Equal(t, 1.0, svc.Rate(context.Background(), "JPY", "SEK"))
	// Fallback rates are never cached.
	assert.Empty(t, cache.puts)
}

func TestConvertNoOpWhenSameCurrency(t *testing.T) {
	svc := newTestCurrencyService("http://127.0.0.1:0", NewMemoryRateCache())
	drafts := []models.TransactionDraft{{Amount: 100}}

	converted := svc.Convert(context.Background(), drafts, "SEK", "SEK")
	require.Len(t, converted, 1)
	assert.Equal(t, 100.0, converted[0].Amount)
	assert.Nil(t, converted[0].OriginalAmount)
	assert.Empty(t, converted[0].OriginalCurrency)
}

func TestConvertAppliesRateAndRecordsOriginal(t *testing.T) {
	cache := newFixedCache(map[string]float64{"USD_SEK": 10.0})
	svc := newTestCurrencyService("http://127.0.0.1:0", cache)

	drafts := []models.TransactionDraft{
		{Description: "Coffee", Amount: 4.555},
		{Description: "Book", Amount: 20},
	}

	converted := svc.Convert(context.Background(), drafts, "USD", "SEK")
	require.Len(t, converted, 2)

	assert.Equal(t, 45.55, converted[0].Amount) // rounded to 2dp
	require.NotNil(t, converted[0].OriginalAmount)
	assert.Equal(t, 4.555, *converted[0].OriginalAmount)
	assert.Equal(t, "USD", converted[0].OriginalCurrency)

	assert.Equal(t, 200.0, converted[1].Amount)

	// The input slice is untouched.
	assert.Equal(t, 4.555, drafts[0].Amount)
	assert.Nil(t, drafts[0].OriginalAmount)
}
