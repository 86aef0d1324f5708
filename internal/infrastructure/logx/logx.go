package logx

import (
	"context"
	"strings"
	"sync"

	"metalprice-service/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	once   sync.Once
	logger *zap.Logger
)

// New builds a JSON production logger at cfg.LogLevel.
func New(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.LogLevel != "" {
		_ = zapCfg.Level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel)))
	}
	return zapCfg.Build(zap.AddCaller(), zap.Fields(zap.String("env", cfg.Env)))
}

// L returns the package-level logger. It is built on first use so that
// variables loaded from .env in main are already in the environment.
func L() *zap.Logger {
	once.Do(func() {
		l, err := New(config.Load())
		if err != nil {
			panic(err)
		}
		logger = l
	})
	return logger
}

// WithContext stores a request-scoped logger on ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or L() if none was set.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return L()
}
