// Package module wires the verdict log
package module

import (
	"context"

	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/services/verdicts/domain"
	"adwarden/internal/services/verdicts/repo"
	"adwarden/internal/services/verdicts/service"
)

// Ports exposed by the verdicts module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the verdicts service module
type Module struct {
	repo  repo.Repo
	ports Ports
}

// New constructs the module; without ClickHouse every write is dropped
func New(deps modkit.Deps) *Module {
	var r repo.Repo = repo.Nop{}
	if deps.CH != nil {
		r = repo.NewCH(deps.CH)
	} else {
		deps.Log.Info().Msg("clickhouse disabled; verdict log is a no-op")
	}
	svc := service.New(r, deps.Log.With().Str("module", "verdicts").Logger())
	return &Module{repo: r, ports: Ports{Writer: svc, Query: svc}}
}

// EnsureSchema creates the verdict table
func (m *Module) EnsureSchema(ctx context.Context) error { return m.repo.EnsureSchema(ctx) }

func (m *Module) Name() string { return "verdicts" }

func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op; the API modules serve this module's ports
func (m *Module) MountRoutes(httpkit.Router) {}
