package application

import (
	"context"
	"errors"
	"time"

	"metalprice-service/internal/domain"
	"metalprice-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

const DefaultCacheTTL = 60 * time.Second

type PriceService struct {
	provider RateProvider
	cache    QuoteCache
	history  QuoteHistory
	metrics  Metrics
	clock    Clock
	ttl      time.Duration
	log      *zap.Logger
}

type Option func(*PriceService)

func WithClock(c Clock) Option { return func(s *PriceService) { s.clock = c } }
func WithTTL(d time.Duration) Option { return func(s *PriceService) { s.ttl = d } }
func WithHistory(h QuoteHistory) Option { return func(s *PriceService) { s.history = h } }
func WithMetrics(m Metrics) Option { return func(s *PriceService) { s.metrics = m } }
func WithLogger(l *zap.Logger) Option { return func(s *PriceService) { s.log = l } }

func NewPriceService(provider RateProvider, cache QuoteCache, opts ...Option) *PriceService {
	s := &PriceService{
		provider: provider,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCacheTTL
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	return s
}

func (s *PriceService) logger(ctx context.Context) *zap.Logger {
	if s.log != nil {
		return s.log
	}
	return logx.FromContext(ctx)
}

// GetPriceDetails serves the cached quote while it is fresh, otherwise fetches
// and recomputes it. When upstream rejects the request a cached quote of any
// age is returned instead; its timestamp is left untouched.
//
// No lock is held across the upstream call, so concurrent misses each fetch
// and the last one to finish owns the slot.
func (s *PriceService) GetPriceDetails(ctx context.Context) (domain.PriceDetails, error) {
	log := s.logger(ctx)
	cached, ok, err := s.cache.Load(ctx)
	if err != nil {
		log.Warn("price.cache_load_failed", zap.Error(err))
		ok = false
	}
	if ok && s.clock.Now().Sub(cached.FetchedAt) < s.ttl {
		log.Info("price.cache_hit", zap.Time("fetched_at", cached.FetchedAt))
		s.metrics.ObserveLookup(OutcomeHit)
		return cached.Details, nil
	}

	log.Info("price.fetch_fresh")
	// The fetch outlives a disconnected client so its result still lands in the cache.
	fetchCtx := context.WithoutCancel(ctx)
	rates, err := s.provider.Latest(fetchCtx)
	if err != nil {
		var rej *domain.UpstreamRejectedError
		if errors.As(err, &rej) {
			log.Error("price.upstream_rejected", zap.ByteString("payload", rej.Payload))
			if ok {
				log.Info("price.fallback_stale", zap.Time("fetched_at", cached.FetchedAt))
				s.metrics.ObserveLookup(OutcomeFallback)
				return cached.Details, nil
			}
			s.metrics.ObserveLookup(OutcomeRejected)
			return domain.PriceDetails{}, err
		}
		log.Error("price.fetch_failed", zap.Error(err))
		s.metrics.ObserveLookup(OutcomeError)
		return domain.PriceDetails{}, err
	}

	details, err := domain.ComputePriceDetails(rates)
	if err != nil {
		log.Error("price.fetch_failed", zap.Error(err))
		s.metrics.ObserveLookup(OutcomeError)
		return domain.PriceDetails{}, err
	}

	q := domain.CachedQuote{Details: details, FetchedAt: s.clock.Now()}
	if err := s.cache.Store(fetchCtx, q); err != nil {
		log.Warn("price.cache_store_failed", zap.Error(err))
	}
	if s.history != nil {
		if err := s.history.Append(fetchCtx, q); err != nil {
			log.Warn("price.history_append_failed", zap.Error(err))
		}
	}
	s.metrics.ObserveLookup(OutcomeFresh)
	return details, nil
}

// History returns up to limit recent computations, newest first.
func (s *PriceService) History(ctx context.Context, limit int) ([]domain.CachedQuote, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}

func (s *PriceService) HistoryEnabled() bool { return s.history != nil }
