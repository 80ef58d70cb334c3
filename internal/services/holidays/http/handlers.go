// Package http provides http transport for holidays
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"workclock/internal/modkit/httpkit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/holidays/domain"
	svc "workclock/internal/services/holidays/service"
)

// Register mounts holiday endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "", h.create)
	httpkit.Get(r, "", h.list)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc svc.Service }

// @Summary Add a holiday range for the caller
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Range"
// @Success 200 {object} domain.Holiday "ok"
// @Router /holidays [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Create(r.Context(), uid, in)
}

// @Summary The caller's holiday ranges
// @Tags Holidays
// @Produce json
// @Success 200 {array} domain.Holiday "ok"
// @Router /holidays [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.List(r.Context(), uid)
}

// @Summary Remove one of the caller's holiday ranges
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday id"
// @Success 200 {object} any "ok"
// @Router /holidays/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, perr.InvalidArgf("malformed holiday id")
	}
	if err := h.svc.Delete(r.Context(), uid, id); err != nil {
		return nil, err
	}
	return map[string]string{"status": "ok"}, nil
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
