package httpkit

import (
	"net/http"

	perrs "workclock/internal/platform/errors"
	pnet "workclock/internal/platform/net"
	phttp "workclock/internal/platform/net/http"
)

// AdminGuard is AdminOnly with the platform JSON writer
func AdminGuard() func(http.Handler) http.Handler { return AdminOnly(phttp.JSON) }

// AdminOnly rejects requests whose context does not carry admin privileges
// mount it inside a Protected group so the auth middleware has already run
func AdminOnly(write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pnet.IsAdmin(r.Context()) {
				status, body := pnet.Error(perrs.Forbiddenf("admin required"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
