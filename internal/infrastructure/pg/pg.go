package pg

import (
	"context"
	"fmt"

	infraconfig "metalprice-service/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "metalprice-service"

// DB wraps the pool backing the quote history.
type DB struct{ Pool *pgxpool.Pool }

func poolConfig(url string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("pg: parse config: %w", err)
	}
	cfg.MaxConns, cfg.MinConns = infraconfig.DefaultPGMaxConns, infraconfig.DefaultPGMinConns
	cfg.MaxConnIdleTime = infraconfig.DefaultPGIdleTime
	cfg.HealthCheckPeriod = infraconfig.DefaultPGHealthCheck
	// a name set in the DSN wins
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return cfg, nil
}

// Connect opens a pool for the history store. Connections are established
// lazily, so readiness is checked by RunMigrations.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := poolConfig(url)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close()                         { d.Pool.Close() }
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }
