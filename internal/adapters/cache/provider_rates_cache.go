package cache

import (
	"fmt"
	"maps"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"
)

// ProviderRatesCache keeps the latest provider quote per base currency for a short TTL.
type ProviderRatesCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewProviderRatesCache(maxItems int64, ttl time.Duration) (*ProviderRatesCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create provider rates cache failed: %w", err)
	}
	return &ProviderRatesCache{cache: c, ttl: ttl}, nil
}

func (c *ProviderRatesCache) Get(base string) (map[string]decimal.Decimal, bool) {
	if v, ok := c.cache.Get(base); ok {
		rates, ok := v.(map[string]decimal.Decimal)
		if !ok {
			return nil, false
		}
		return maps.Clone(rates), true
	}
	return nil, false
}

func (c *ProviderRatesCache) Set(base string, rates map[string]decimal.Decimal) {
	if c.ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(base, maps.Clone(rates), 1, c.ttl)
}

func (c *ProviderRatesCache) Close() { c.cache.Close() }
