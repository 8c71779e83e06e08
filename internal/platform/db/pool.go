package db

import (
	"context"
	"fmt"

	"fxswap/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool, checks it with a ping and brings the schema up to date.
func Connect(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err = Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
