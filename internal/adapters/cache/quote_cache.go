package cache

import (
	"fmt"
	"time"

	"fxswap/internal/domain"

	"github.com/dgraph-io/ristretto"
)

type RistrettoQuoteCache struct {
	cache *ristretto.Cache
}

func NewQuoteCache(maxItems int64) (*RistrettoQuoteCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote cache failed: %w", err)
	}
	return &RistrettoQuoteCache{cache: c}, nil
}

func (c *RistrettoQuoteCache) Get(key string) (domain.QuoteResult, bool) {
	if v, ok := c.cache.Get(key); ok {
		q, ok := v.(domain.QuoteResult)
		return q, ok
	}
	return domain.QuoteResult{}, false
}

func (c *RistrettoQuoteCache) Set(key string, quote domain.QuoteResult, ttl time.Duration) {
	c.cache.SetWithTTL(key, quote, 1, ttl)
}

func (c *RistrettoQuoteCache) Close() { c.cache.Close() }

// QuoteKey builds the cache key of an estimate.
func QuoteKey(fromSymbol, toSymbol, amount string, mode domain.RateMode) string {
	return fromSymbol + ":" + toSymbol + ":" + amount + ":" + string(mode)
}
