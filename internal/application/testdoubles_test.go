package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"metalprice-service/internal/domain"
)

var errTransport = errors.New("dial tcp: connection refused")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeRateProvider struct {
	mu    sync.Mutex
	out   domain.UpstreamRates
	err   error
	calls int
}

func (f *fakeRateProvider) Latest(context.Context) (domain.UpstreamRates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.UpstreamRates{}, f.err
	}
	return f.out, nil
}

func (f *fakeRateProvider) set(out domain.UpstreamRates, err error) {
	f.mu.Lock()
	f.out, f.err = out, err
	f.mu.Unlock()
}

func (f *fakeRateProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	q        domain.CachedQuote
	ok       bool
	loadErr  error
	storeErr error
	stores   int
}

func (f *fakeCache) Load(context.Context) (domain.CachedQuote, bool, error) {
	if f.loadErr != nil {
		return domain.CachedQuote{}, false, f.loadErr
	}
	return f.q, f.ok, nil
}

func (f *fakeCache) Store(_ context.Context, q domain.CachedQuote) error {
	f.stores++
	if f.storeErr != nil {
		return f.storeErr
	}
	f.q, f.ok = q, true
	return nil
}

type fakeHistory struct {
	items []domain.CachedQuote
	err   error
}

func (f *fakeHistory) Append(_ context.Context, q domain.CachedQuote) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, q)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]domain.CachedQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CachedQuote, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}

type countingMetrics struct {
	outcomes []string
}

func (m *countingMetrics) ObserveLookup(outcome string) { m.outcomes = append(m.outcomes, outcome) }
