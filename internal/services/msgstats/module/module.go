// Package module wires the msgstats service
package module

import (
	"context"

	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/modkit/repokit"
	"adwarden/internal/services/msgstats/domain"
	"adwarden/internal/services/msgstats/repo"
	"adwarden/internal/services/msgstats/service"
)

// Ports exposed by the msgstats module
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
	SafeList domain.SafeListPort
}

// Module implements the msgstats service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new msgstats module
func New(deps modkit.Deps) *Module {
	policy := FromConfig(deps.Cfg)
	timeoutMs := deps.Cfg.Prefix("SERVICE_PGSQL_").MayInt("STATEMENT_TIMEOUT_MS", 2000)
	db := repokit.WithBeginHooks(deps.PG, statementTimeout(timeoutMs))
	svc := service.New(db, repo.NewPG(), policy, deps.Log.With().Str("module", "msgstats").Logger())

	m := &Module{deps: deps}
	m.ports = Ports{
		Recorder: svc,
		Query:    svc,
		SafeList: svc,
	}
	return m
}

// EnsureSchema creates the tables the service needs
func (m *Module) EnsureSchema(ctx context.Context) error {
	return repo.EnsureSchema(ctx, m.deps.PG)
}

func (m *Module) Name() string { return "msgstats" }

func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op; the API modules serve this module's ports
func (m *Module) MountRoutes(httpkit.Router) {}
