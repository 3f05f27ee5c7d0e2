// Package module wires stats and the safe list into the API
package module

import (
	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/platform/net/middleware"
	"adwarden/internal/services/api/stats/domain"
	statshttp "adwarden/internal/services/api/stats/http"
)

// Ports declares the msgstats ports this module needs injected
type Ports struct {
	Stats    domain.StatsPort
	SafeList domain.SafeListPort
	// Admin guards cleanup and safe list changes; nil leaves them open
	Admin middleware.AuthPort
}

// New builds the stats module at /stats
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build("stats", "/stats", opts...)

	p, _ := spec.Ports.(Ports)
	if p.Stats == nil {
		panic("stats API module requires the Stats port")
	}
	return spec.Mount(func(r httpkit.Router) { statshttp.Register(r, p.Stats, p.Admin) })
}

// NewSafeList builds the safe list module at /safelist
func NewSafeList(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build("safelist", "/safelist", opts...)

	p, _ := spec.Ports.(Ports)
	if p.SafeList == nil {
		panic("safelist API module requires the SafeList port")
	}
	return spec.Mount(func(r httpkit.Router) { statshttp.RegisterSafeList(r, p.SafeList, p.Admin) })
}
