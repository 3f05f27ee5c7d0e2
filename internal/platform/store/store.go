// Package store opens the optional backends (postgres, clickhouse, redis)
// and hides their drivers behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"adwarden/internal/platform/logger"
)

// Store holds whichever backends were enabled; the others stay nil
type Store struct {
	Log logger.Logger

	PG  TxRunner
	CH  Clickhouse
	RDS *redis.Client
}

// Row is one scanned row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos see, pool or transaction alike
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam the verdict log writes through
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates Store during Open
type Option func(*Store)

// WithLogger sets the logger handed to the drivers
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open connects every backend cfg enables. A failure closes what was
// already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}

	var err error
	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg.PG, s.Log); err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("clickhouse: %w", err)
		}
	}
	if cfg.RDS.Enabled {
		if s.RDS, err = openRedis(ctx, cfg.RDS); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("redis: %w", err)
		}
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	check := func(name string, v any) error {
		p, ok := v.(Pinger)
		if !ok {
			return nil
		}
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	var errs []error
	if s.PG != nil {
		errs = append(errs, check("pg", s.PG))
	}
	if s.CH != nil {
		errs = append(errs, check("ch", s.CH))
	}
	if s.RDS != nil {
		if err := s.RDS.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.RDS != nil {
		errs = append(errs, s.RDS.Close())
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
