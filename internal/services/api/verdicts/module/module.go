// Package module wires the verdict log endpoints into the API
package module

import (
	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	vhttp "adwarden/internal/services/api/verdicts/http"
	"adwarden/internal/services/verdicts/domain"
)

// Ports declares the verdict query port this module needs injected
type Ports struct {
	Query domain.QueryPort
}

// New builds the module at /verdicts
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build("verdicts-api", "/verdicts", opts...)

	p, _ := spec.Ports.(Ports)
	if p.Query == nil {
		panic("verdicts API module requires the Query port")
	}
	return spec.Mount(func(r httpkit.Router) { vhttp.Register(r, p.Query) })
}
