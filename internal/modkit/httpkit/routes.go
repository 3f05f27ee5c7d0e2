// Package httpkit holds the route helpers API modules use so they never touch
// the platform http package directly
package httpkit

import (
	"net/http"

	phttp "adwarden/internal/platform/net/http"
	"adwarden/internal/platform/net/middleware"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Handler is the platform handler func
	Handler = phttp.Handler
)

// Get registers a body-less handler whose result is enveloped
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, call(h)) }

// Post registers a body-less POST handler
func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, call(h)) }

// Delete registers a body-less DELETE handler
func Delete(r Router, path string, h func(*http.Request) (any, error)) { r.Delete(path, call(h)) }

// PostJSON registers a POST handler that decodes and validates T first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

func call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response { return phttp.Result(fn(r)) })
}

// MountAPIV1 scopes mount under /api/v1 with mw applied to every route
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// Protected groups the routes fn registers behind the admin port. A nil port
// leaves them open
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
