package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"metalprice-service/internal/application"
	"metalprice-service/internal/config"
	"metalprice-service/internal/infrastructure/logx"
	"metalprice-service/internal/infrastructure/memstore"
	"metalprice-service/internal/infrastructure/pg"
	"metalprice-service/internal/infrastructure/provider"
	redisstore "metalprice-service/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for STORAGE=pg")

// ReadyCheck reports whether a backing dependency is reachable. A nil check
// means the dependency has nothing to check.
type ReadyCheck func(ctx context.Context) error

func noop() {}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideRateProvider(cfg config.Config) (application.RateProvider, error) {
	switch cfg.Provider {
	case "fake":
		return provider.NewFake(provider.DefaultFakeRates), nil
	case "", "metalpriceapi":
		// A zero UpstreamTimeout keeps the transport defaults.
		return &provider.MetalPriceAPIProvider{
			BaseURL: cfg.MetalPriceURL,
			APIKey:  cfg.MetalPriceKey,
			Client:  &http.Client{Timeout: cfg.UpstreamTimeout},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func ProvideQuoteCache(cfg config.Config, log *zap.Logger) (application.QuoteCache, ReadyCheck, func(), error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return memstore.NewQuoteCache(), nil, noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := redisstore.New(client, cfg.RedisCacheKey)
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return store, store.Ping, cleanup, nil
	default:
		return nil, nil, noop, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}
}

func ProvideHistory(ctx context.Context, cfg config.Config, log *zap.Logger) (application.QuoteHistory, ReadyCheck, func(), error) {
	switch cfg.Storage {
	case "", "none":
		return nil, nil, noop, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, nil, noop, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewQuoteHistoryRepo(db), db.Ping, cleanup, nil
	default:
		return nil, nil, noop, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}
}
