package wpgx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/stumble/wpgx"
)

type ConfigOption func(c *wpgx.Config)

func WithBeforeAcquire(f func(context.Context, *pgx.Conn) bool) ConfigOption {
	return func(c *wpgx.Config) {
		c.BeforeAcquire = f
	}
}

// InitDB builds a connection pool from POSTGRES_* environment
// variables and verifies connectivity before returning it.
func InitDB(ctx context.Context, timeout time.Duration, configOpts ...ConfigOption) (*wpgx.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := wpgx.ConfigFromEnvPrefix("postgres")
	for _, opt := range configOpts {
		opt(c)
	}
	pool, err := wpgx.NewPool(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping primary pool: %w", err)
	}
	log.Ctx(ctx).Info().Msg("primary pool is ready")
	for name, readPool := range pool.ReplicaPools() {
		if err = readPool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping read replica %s: %w", name, err)
		}
		log.Ctx(ctx).Info().Msgf("read replica %s is ready", name)
	}
	return pool, nil
}
