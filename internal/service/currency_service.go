package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"finsight/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateCache stores exchange rates for the life of the process. There is no
// expiry: session-scoped accuracy is acceptable for this domain, and a lost
// update on a concurrent miss only costs one redundant lookup.
type RateCache interface {
	Get(key string) (float64, bool)
	Put(key string, rate float64)
}

type memoryRateCache struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewMemoryRateCache returns the default in-process RateCache.
func NewMemoryRateCache() RateCache {
	return &memoryRateCache{rates: make(map[string]float64)}
}

func (c *memoryRateCache) Get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.rates[key]
	return rate, ok
}

func (c *memoryRateCache) Put(key string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[key] = rate
}

// CurrencyService resolves exchange rates and normalizes extracted
// transactions into the base currency. Lookup failures are fully absorbed:
// conversion must never block extraction, so a dead rate source degrades to
// the static fallback table and ultimately to a 1.0 rate.
type CurrencyService struct {
	apiURL   string
	client   *http.Client
	cache    RateCache
	fallback map[string]float64
	logger   *zap.Logger
}

func NewCurrencyService(apiURL string, timeout time.Duration, cache RateCache, fallback map[string]float64, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{
		apiURL:   apiURL,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		fallback: fallback,
		logger:   logger,
	}
}

// Rate returns the conversion rate from one currency to another. It never
// fails: identical codes short-circuit to 1.0, cache hits skip the network,
// and any live-lookup failure falls back to the static table (keyed by the
// source currency; the target is assumed to be the base) or 1.0.
func (s *CurrencyService) Rate(ctx context.Context, from, to string) float64 {
	if from == to {
		return 1.0
	}

	key := from + "_" + to
	if rate, ok := s.cache.Get(key); ok {
		return rate
	}

	rate, err := s.fetchRate(ctx, from, to)
	if err != nil {
		s.logger.Warn("Live rate lookup failed, using fallback",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		if fb, ok := s.fallback[from]; ok {
			return fb
		}
		return 1.0
	}

	s.cache.Put(key, rate)
	return rate
}

func (s *CurrencyService) fetchRate(ctx context.Context, from, to string) (float64, error) {
	u := fmt.Sprintf("%s/latest?from=%s&to=%s", s.apiURL, url.QueryEscape(from), url.QueryEscape(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate source returned no rate for %s", to)
	}
	return rate, nil
}

// Convert applies one rate uniformly to every draft, rounding to 2 decimal
// places and recording the original amount and currency for audit. It is a
// no-op when source and target match. Re-applying it to already-converted
// drafts double-converts; tracking conversion state is the caller's job.
func (s *CurrencyService) Convert(ctx context.Context, drafts []models.TransactionDraft, from, to string) []models.TransactionDraft {
	if from == to {
		return drafts
	}

	rate := decimal.NewFromFloat(s.Rate(ctx, from, to))

	converted := make([]models.TransactionDraft, len(drafts))
	for i, draft := range drafts {
		original := draft.Amount
		draft.Amount = decimal.NewFromFloat(original).Mul(rate).Round(2).InexactFloat64()
		draft.OriginalAmount = &original
		draft.OriginalCurrency = from
		converted[i] = draft
	}
	return converted
}
