package httpkit

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	perrs "adwarden/internal/platform/errors"
	"adwarden/internal/platform/net/middleware"
)

// TokenFunc maps a bearer token to an operator name
type TokenFunc func(token string) (operator string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

var errTokenMismatch = errors.New("token mismatch")

// AdminToken guards routes with a single shared secret. An empty token yields
// a nil port, which leaves the routes open
func AdminToken(token string) middleware.AuthPort {
	if token == "" {
		return nil
	}
	want := []byte(token)
	return NewPortFunc(func(got string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return "", errTokenMismatch
		}
		return "admin", nil
	})
}

// Parse extracts the operator from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, error) {
	// normalize whitespace around the whole header
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	if s == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	ls := strings.ToLower(s)
	const prefix = "bearer"
	if !strings.HasPrefix(ls, prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// slice after "Bearer" (no trailing space required), then trim any spaces before token
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}

	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}

	op, err := p.parse(raw)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return op, nil
}
