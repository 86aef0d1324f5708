package httpserver

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"metalprice-service/internal/application"
	"metalprice-service/internal/domain"
	"metalprice-service/internal/infrastructure/memstore"

	"go.uber.org/zap"
)

var _ application.RateProvider = (*scriptedProvider)(nil)

type scriptedProvider struct {
	mu    sync.Mutex
	rates domain.UpstreamRates
	err   error
	calls int
}

func (p *scriptedProvider) Latest(context.Context) (domain.UpstreamRates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.rates, p.err
}

func (p *scriptedProvider) reject(payload string) {
	p.mu.Lock()
	p.err = &domain.UpstreamRejectedError{Payload: json.RawMessage(payload)}
	p.mu.Unlock()
}

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type memHistory struct {
	items []domain.CachedQuote
}

func (h *memHistory) Append(_ context.Context, q domain.CachedQuote) error {
	h.items = append(h.items, q)
	return nil
}

func (h *memHistory) Recent(_ context.Context, limit int) ([]domain.CachedQuote, error) {
	out := []domain.CachedQuote{}
	for i := len(h.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.items[i])
	}
	return out, nil
}

var sampleRates = domain.UpstreamRates{XAU: 0.00059, XAG: 0.047, INR: 83.2, EUR: 0.92}

func newTestService(p application.RateProvider, opts ...application.Option) (*application.PriceService, *stepClock) {
	clk := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]application.Option{application.WithClock(clk), application.WithLogger(zap.NewNop())}, opts...)
	return application.NewPriceService(p, memstore.NewQuoteCache(), opts...), clk
}
