// Package module wires the moderation endpoints into the API
package module

import (
	"adwarden/internal/modkit"
	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/services/api/moderation/domain"
	modhttp "adwarden/internal/services/api/moderation/http"
)

// Ports declares what this API module needs injected from the moderation engine
type Ports = domain.Deps

// New builds the module at /moderation; Ports must be supplied with
// modkit.WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build("moderation-api", "/moderation", opts...)

	p, _ := spec.Ports.(Ports)
	if p.Inspector == nil || p.Classifier == nil || p.Queue == nil {
		panic("moderation API module requires Inspector, Classifier and Queue ports")
	}
	return spec.Mount(func(r httpkit.Router) { modhttp.Register(r, p) })
}
