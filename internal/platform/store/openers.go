package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	chx "adwarden/internal/platform/store/ch"
	"adwarden/internal/platform/store/pg"
	"adwarden/internal/platform/store/rds"

	"adwarden/internal/platform/logger"
)

func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (TxRunner, error) {
	pool, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		Slow:     time.Duration(cfg.SlowQueryMs) * time.Millisecond,
		LogSQL:   cfg.LogSQL,
		Attempts: cfg.ConnectRetries,
	}, log)
	if err != nil {
		return nil, err
	}
	return &pgStore{pool: pool, sqlQuerier: sqlQuerier{pool}}, nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.CH.URL,
		ClientName:  cfg.AppName,
		ClientTag:   cfg.CH.ClientTag,
		DialTimeout: cfg.CH.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return chStore{c}, nil
}

func openRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	return rds.Open(ctx, rds.Config{URL: cfg.URL})
}

// pgxQuerier is what a pool and a pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// sqlQuerier narrows pgx types to the store seams
type sqlQuerier struct{ q pgxQuerier }

func (s sqlQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return s.q.Exec(ctx, sql, args...)
}

func (s sqlQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (s sqlQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return s.q.QueryRow(ctx, sql, args...)
}

type pgStore struct {
	sqlQuerier
	pool *pgxpool.Pool
}

func (p *pgStore) Tx(ctx context.Context, fn func(RowQuerier) error) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error { return fn(sqlQuerier{tx}) })
}

func (p *pgStore) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *pgStore) Close() error {
	p.pool.Close()
	return nil
}

// chStore narrows the clickhouse driver rows to Rows
type chStore struct{ *chx.CH }

func (c chStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := c.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

type chRows struct{ chx.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
