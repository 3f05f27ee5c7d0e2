// Package middleware is the HTTP middleware chain of the API: chi's stock
// handlers plus the in house recover, access log and auth
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pstrings "adwarden/internal/platform/strings"
)

// StackOptions shapes Stack. Zero values get working defaults
type StackOptions struct {
	Timeout   time.Duration
	Heartbeat string
	AccessLog AccessLogOptions
	CORS      CORSOptions
}

// Stack is the ordered chain every versioned API request passes through
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Heartbeat == "" {
		o.Heartbeat = "/health"
	}
	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		RecoverJSON,
		chimw.NoCache,
		AccessLog(o.AccessLog),
		CORS(o.CORS),
		chimw.Compress(flate.BestSpeed),
		chimw.Heartbeat(o.Heartbeat),
		chimw.StripSlashes,
		chimw.Timeout(o.Timeout),
	}
}

// CORSOptions is the part of go-chi/cors the API configures
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS fills in the methods and headers the API uses when left empty
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}),
		MaxAge:         o.MaxAge,
	})
}
