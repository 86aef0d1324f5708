package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"metalprice-service/internal/application"
	"metalprice-service/internal/config"
	httpserver "metalprice-service/internal/infrastructure/http"
	"metalprice-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// BuildAPI wires the price service and returns the HTTP handler together
// with a cleanup that releases every opened connection.
func BuildAPI(ctx context.Context, cfg config.Config, log *zap.Logger) (http.Handler, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	rp, err := ProvideRateProvider(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("rate provider: %w", err)
	}

	cache, cacheReady, closeCache, err := ProvideQuoteCache(cfg, log)
	if err != nil {
		return nil, noop, fmt.Errorf("quote cache: %w", err)
	}
	cleanups = append(cleanups, closeCache)

	history, historyReady, closeHistory, err := ProvideHistory(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("quote history: %w", err)
	}
	cleanups = append(cleanups, closeHistory)

	m := metrics.New()
	opts := []application.Option{
		application.WithTTL(cfg.CacheTTL),
		application.WithMetrics(m),
	}
	if history != nil {
		opts = append(opts, application.WithHistory(history))
	}
	svc := application.NewPriceService(rp, cache, opts...)

	srv := httpserver.NewServer(svc,
		httpserver.WithMetrics(m),
		httpserver.WithStaticDir(cfg.StaticDir),
		httpserver.WithHistoryLimit(cfg.HistoryLimit),
		httpserver.WithReadyCheck(httpserver.ReadyCheck(cacheReady)),
		httpserver.WithReadyCheck(httpserver.ReadyCheck(historyReady)),
	)
	log.Info("api wired",
		zap.String("provider", cfg.Provider),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("storage", cfg.Storage),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)
	return httpserver.NewRouter(srv), cleanup, nil
}
