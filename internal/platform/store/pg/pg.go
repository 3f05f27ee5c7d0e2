// Package pg opens a pgx pool, waits until postgres answers and traces
// statements through zerolog and prometheus
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"adwarden/internal/platform/logger"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// Slow marks statements at or above it, 0 disables
	Slow   time.Duration
	LogSQL bool
	// Attempts bounds the startup ping loop, 0 means 20
	Attempts uint64
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool and blocks until a ping succeeds or the attempts
// run out
func Open(ctx context.Context, cfg Config, log logger.Logger) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pcfg.ConnConfig.Tracer = NewTracer(log, cfg.Slow, cfg.LogSQL)

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := waitReady(ctx, pool, cfg.Attempts); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type pinger interface{ Ping(context.Context) error }

func waitReady(ctx context.Context, p pinger, attempts uint64) error {
	if attempts == 0 {
		attempts = 20
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0

	var tries uint64
	err := backoff.Retry(func() error {
		tries++
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := p.Ping(pctx)
		if err != nil && tries >= attempts {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("ping failed after %d attempts: %w", tries, err)
	}
	return nil
}
