package memstore

import (
	"context"
	"sync"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
)

var _ application.QuoteCache = (*QuoteCache)(nil)

// QuoteCache is the process-wide cache slot. It holds at most one quote.
type QuoteCache struct {
	mu  sync.RWMutex
	q   domain.CachedQuote
	set bool
}

func NewQuoteCache() *QuoteCache { return &QuoteCache{} }

func (c *QuoteCache) Load(context.Context) (domain.CachedQuote, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.q, c.set, nil
}

func (c *QuoteCache) Store(_ context.Context, q domain.CachedQuote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.q, c.set = q, true
	return nil
}
