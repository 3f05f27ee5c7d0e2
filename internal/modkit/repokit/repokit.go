// Package repokit is the glue between services and their sql repos:
// binding a repo to a pool or transaction, tx begin hooks and startup checks
package repokit

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/store"
)

type (
	// Queryer is what a bound repo runs statements on
	Queryer = store.RowQuerier

	// TxRunner opens transactions
	TxRunner = store.TxRunner

	// Row is a single scanned row
	Row = store.Row
)

// Binder makes a repo for one Queryer, usually the current transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain func to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q and panics when q is nil
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: bind on nil Queryer")
	}
	return b.Bind(q)
}

// TxRetries is how many times WithTx reruns a transaction that lost a
// serialization or deadlock race
var TxRetries uint64 = 2

// WithTx runs fn in a transaction on tx. fn may run more than once, so it
// must reset anything it captures
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond

	return backoff.Retry(func() error {
		err := tx.Tx(ctx, fn)
		if err != nil && !perr.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, TxRetries), ctx))
}

// BeginHook runs first inside every transaction, e.g. to SET LOCAL a
// statement timeout
type BeginHook func(ctx context.Context, q Queryer) error

type hooked struct {
	TxRunner
	hooks []BeginHook
}

// WithBeginHooks returns inner with hooks run at the start of each Tx.
// Statements outside a transaction are untouched
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hooked{TxRunner: inner, hooks: hooks}
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

type guarder interface {
	Guard(context.Context) error
}

// MustGuard panics when any configured backend fails its ping
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
