package middleware

import (
	"net/http"

	"adwarden/internal/platform/logger"
	pnet "adwarden/internal/platform/net"
)

// AuthPort checks admin credentials on a request
type AuthPort interface {
	// Parse returns the operator name or why the request is refused
	Parse(r *http.Request) (operator string, err error)
}

// Auth replies with the error envelope for requests p refuses and tags the
// rest with the operator. A nil p lets everything through
func Auth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := pnet.RequestID(r.Context())
			op, err := p.Parse(r)
			if err != nil {
				status, env := pnet.ErrorEnvelope(err, reqID)
				pnet.WriteJSON(w, status, env)
				return
			}
			ctx := pnet.WithOperator(r.Context(), op)
			ctx = logger.WithRequest(ctx, reqID, op)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
