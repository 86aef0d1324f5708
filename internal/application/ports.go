package application

import (
	"context"

	"metalprice-service/internal/domain"
)

type RateProvider interface {
	Latest(ctx context.Context) (domain.UpstreamRates, error)
}

// QuoteCache is the single process-wide cache slot. Implementations
// synchronize Load and Store; callers must not assume anything across calls.
type QuoteCache interface {
	Load(ctx context.Context) (domain.CachedQuote, bool, error)
	Store(ctx context.Context, q domain.CachedQuote) error
}

type QuoteHistory interface {
	Append(ctx context.Context, q domain.CachedQuote) error
	Recent(ctx context.Context, limit int) ([]domain.CachedQuote, error)
}

// Metrics receives one outcome per GetPriceDetails call.
type Metrics interface {
	ObserveLookup(outcome string)
}

const (
	OutcomeHit      = "hit"
	OutcomeFresh    = "fresh"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type noopMetrics struct{}

func (noopMetrics) ObserveLookup(string) {}
