// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"
	"strings"

	perrs "workclock/internal/platform/errors"
)

// TokenFunc parses a bearer token and returns the user id plus an admin flag
type TokenFunc func(token string) (userID string, admin bool, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the user id and admin flag from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, bool, error) {
	authz := r.Header.Get("Authorization")
	// normalize whitespace around the whole header
	s := strings.TrimSpace(authz)
	if s == "" {
		return "", false, perrs.Unauthorizedf("missing bearer token")
	}
	ls := strings.ToLower(s)
	const prefix = "bearer"
	if !strings.HasPrefix(ls, prefix) {
		return "", false, perrs.Unauthorizedf("missing bearer token")
	}
	// slice after "Bearer" (no trailing space required), then trim any spaces before token
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", false, perrs.Unauthorizedf("missing bearer token")
	}

	if p.parse == nil {
		return "", false, perrs.Unauthorizedf("invalid bearer token")
	}

	uid, admin, err := p.parse(raw)
	if err != nil {
		return "", false, perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, admin, nil
}
