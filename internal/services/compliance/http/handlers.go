// Package http provides http transport for compliance
package http

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"workclock/internal/modkit/httpkit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/compliance/domain"
	svc "workclock/internal/services/compliance/service"
)

// Register mounts compliance endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RuleInput](r, "/rules", h.put)
	httpkit.Get(r, "/rules", h.list)
	httpkit.Delete(r, "/rules/{id}", h.remove)
	httpkit.Get(r, "/violations", h.evaluate)
}

type handlers struct{ svc svc.Service }

// @Summary Create or replace a compliance rule for the caller
// @Tags Compliance
// @Accept json
// @Produce json
// @Param payload body domain.RuleInput true "Rule"
// @Success 200 {object} domain.Rule "ok"
// @Router /compliance/rules [post]
func (h *handlers) put(r *stdhttp.Request, in domain.RuleInput) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.PutRule(r.Context(), uid, in)
}

// @Summary The caller's compliance rules
// @Tags Compliance
// @Produce json
// @Success 200 {array} domain.Rule "ok"
// @Router /compliance/rules [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListRules(r.Context(), uid)
}

// @Summary Delete one of the caller's compliance rules
// @Tags Compliance
// @Produce json
// @Param id path string true "Rule id"
// @Success 200 {object} any "ok"
// @Router /compliance/rules/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, perr.InvalidArgf("malformed rule id")
	}
	if err := h.svc.DeleteRule(r.Context(), uid, id); err != nil {
		return nil, err
	}
	return map[string]string{"status": "ok"}, nil
}

// @Summary Evaluate the caller's rules over a date range
// @Tags Compliance
// @Produce json
// @Param from query string true "RFC3339 lower bound"
// @Param to query string true "RFC3339 upper bound (exclusive)"
// @Success 200 {array} domain.Violation "ok"
// @Router /compliance/violations [get]
func (h *handlers) evaluate(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	from, err := queryTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := queryTime(r, "to")
	if err != nil {
		return nil, err
	}
	return h.svc.Evaluate(r.Context(), uid, from, to)
}

func callerID(r *stdhttp.Request) (uuid.UUID, error) {
	raw, err := httpkit.User(r)
	if err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, perr.Unauthorizedf("malformed user id")
	}
	return uid, nil
}

func queryTime(r *stdhttp.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, perr.InvalidArgf("missing %q query parameter", key)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, perr.InvalidArgf("%q must be RFC3339", key)
	}
	return t, nil
}
