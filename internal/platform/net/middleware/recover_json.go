package middleware

import (
	"net/http"
	"runtime/debug"

	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
	pnet "adwarden/internal/platform/net"
)

// RecoverJSON turns a handler panic into a 500 envelope and logs the value
// with its stack. http.ErrAbortHandler is re-raised
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Str("request_id", reqID).
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, env := pnet.ErrorEnvelope(perr.PanicErrf("panic recovered"), reqID)
			pnet.WriteJSON(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
