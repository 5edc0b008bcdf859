package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProviderRatesCache_SetAndGet(t *testing.T) {
	c, err := NewProviderRatesCache(128, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	rates := map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.92")}
	c.Set("USD", rates)
	c.cache.Wait()

	got, ok := c.Get("USD")
	require.True(t, ok)
	require.True(t, got["EUR"].Equal(decimal.RequireFromString("0.92")))
}

func TestProviderRatesCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewProviderRatesCache(64, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get("EUR")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestProviderRatesCache_ReturnsCopies(t *testing.T) {
	c, err := NewProviderRatesCache(64, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	src := map[string]decimal.Decimal{"JPY": decimal.NewFromInt(150)}
	c.Set("USD", src)
	c.cache.Wait()

	// mutating the source or a returned map must not leak into the cache
	src["JPY"] = decimal.NewFromInt(1)
	got, ok := c.Get("USD")
	require.True(t, ok)
	got["JPY"] = decimal.NewFromInt(2)

	again, ok := c.Get("USD")
	require.True(t, ok)
	require.True(t, again["JPY"].Equal(decimal.NewFromInt(150)))
}

func TestProviderRatesCache_ZeroTTLDisablesCaching(t *testing.T) {
	c, err := NewProviderRatesCache(64, 0)
	require.NoError(t, err)
	defer c.Close()

	c.Set("USD", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)})
	c.cache.Wait()

	_, ok := c.Get("USD")
	require.False(t, ok)
}
