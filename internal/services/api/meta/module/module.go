// Package module wires meta endpoints into the API
package module

import (
	"context"
	"time"

	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/platform/store"
	metahttp "adwarden/internal/services/api/meta/http"
)

// New builds the meta module at /meta. Backends left disabled report as
// skipped on /meta/ready
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build("meta", "/meta", opts...)

	d := metahttp.Deps{
		ServiceName: "adwarden-api",
		StartedAt:   time.Now(),
		Checks: []metahttp.Check{
			{Name: "pg", Ping: pingOf(deps.PG)},
			{Name: "ch", Ping: pingOf(deps.CH)},
			{Name: "redis"},
		},
		ReadyTimeout: deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	if deps.RDS != nil {
		d.Checks[2].Ping = func(ctx context.Context) error { return deps.RDS.Ping(ctx).Err() }
	}
	return spec.Mount(func(r httpkit.Router) { metahttp.Register(r, d) })
}

func pingOf(backend any) func(context.Context) error {
	if p, ok := backend.(store.Pinger); ok && p != nil {
		return p.Ping
	}
	return nil
}
