package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOpen_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cfg    Config
		prefix string
	}{
		{"bad pg url", Config{PG: PGConfig{Enabled: true, URL: "::bad::"}}, "postgres:"},
		{"bad ch dsn", Config{CH: CHConfig{Enabled: true, URL: "://bad"}}, "clickhouse:"},
		{"redis down", Config{RDS: RedisConfig{Enabled: true, URL: "redis://127.0.0.1:1/0"}}, "redis:"},
		{"pg fails before ch", Config{
			PG: PGConfig{Enabled: true, URL: "::bad::"},
			CH: CHConfig{Enabled: true, URL: "clickhouse://127.0.0.1:1/db"},
		}, "postgres:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			s, err := Open(ctx, tc.cfg, WithLogger(zerolog.Nop()))
			if err == nil || s != nil {
				t.Fatalf("expected failure, got store=%v err=%v", s, err)
			}
			if !strings.HasPrefix(err.Error(), tc.prefix) {
				t.Fatalf("error %q should name the backend %q", err, tc.prefix)
			}
		})
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("no backend requested, got %+v", s)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard on empty store: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close on empty store: %v", err)
	}
}

type pingTx struct {
	fakeQ
	err    error
	closed bool
}

func (p *pingTx) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingTx) Ping(context.Context) error                              { return p.err }
func (p *pingTx) Close() error {
	p.closed = true
	return nil
}

type silentTx struct{ fakeQ }

func (s *silentTx) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(s) }

func TestGuard(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail guard")
	}

	if err := (&Store{PG: &silentTx{}}).Guard(context.Background()); err != nil {
		t.Fatalf("seam without Ping is skipped, got %v", err)
	}
	if err := (&Store{PG: &pingTx{}}).Guard(context.Background()); err != nil {
		t.Fatalf("healthy pg: %v", err)
	}

	down := errors.New("connection refused")
	err := (&Store{PG: &pingTx{err: down}}).Guard(context.Background())
	if !errors.Is(err, down) || !strings.HasPrefix(err.Error(), "pg:") {
		t.Fatalf("expected wrapped pg error, got %v", err)
	}
}

func TestClose_ReleasesPG(t *testing.T) {
	t.Parallel()
	p := &pingTx{}
	if err := (&Store{PG: p}).Close(context.Background()); err != nil || !p.closed {
		t.Fatalf("close err=%v closed=%v", err, p.closed)
	}
}
