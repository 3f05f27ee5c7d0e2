// Package modkit assembles API modules: the shared deps they are built from
// and the options naming, prefixing and injecting ports into them
package modkit

import (
	"github.com/redis/go-redis/v9"

	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/modkit/module"
	"adwarden/internal/modkit/repokit"
	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
	pstrings "adwarden/internal/platform/strings"
	"adwarden/internal/platform/store"
)

// Deps are the process wide dependencies handed to every module. The
// backends are nil when disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS *redis.Client
}

// Module is what the API composition root mounts
type Module = module.Module

// Spec describes an API module before its routes are attached
type Spec struct {
	Name   string
	Prefix string
	Ports  any
}

// Option adjusts a Spec
type Option func(*Spec)

// WithName overrides the module name
func WithName(name string) Option { return func(s *Spec) { s.Name = name } }

// WithPrefix overrides the mount prefix
func WithPrefix(prefix string) Option { return func(s *Spec) { s.Prefix = prefix } }

// WithPorts injects the ports another module exposes; T is declared by the
// receiving module
func WithPorts[T any](p T) Option { return func(s *Spec) { s.Ports = p } }

// Build starts from name and prefix and applies opts in order
func Build(name, prefix string, opts ...Option) Spec {
	s := Spec{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Mount turns s into a Module whose routes come from register,
// scoped under the prefix
func (s Spec) Mount(register func(httpkit.Router)) Module {
	s.Name = pstrings.MustString(s.Name, "module name")
	return &mounted{spec: s, prefix: pstrings.MustPrefix(s.Prefix), register: register}
}

type mounted struct {
	spec     Spec
	prefix   string
	register func(httpkit.Router)
}

func (m *mounted) Name() string { return m.spec.Name }
func (m *mounted) Ports() any   { return m.spec.Ports }

func (m *mounted) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(sub httpkit.Router) { m.register(sub) })
}
