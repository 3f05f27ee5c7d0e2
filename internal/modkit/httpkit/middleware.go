package httpkit

import (
	"net/http"
	"time"

	"adwarden/internal/platform/net/middleware"
)

// CommonStack is the chain the versioned API runs behind. /health stays
// out of the access log
func CommonStack() []func(http.Handler) http.Handler {
	return middleware.Stack(middleware.StackOptions{
		Timeout:   30 * time.Second,
		Heartbeat: "/health",
		AccessLog: middleware.AccessLogOptions{Slow: 500 * time.Millisecond, Quiet: []string{"/health"}},
	})
}

// Auth gates routes on p; nil leaves them open
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler { return middleware.Auth(p) }
