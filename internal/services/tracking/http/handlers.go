// Package http provides http transport for tracking
package http

import (
	stdhttp "net/http"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
	"workclock/internal/modkit/httpkit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/tracking/domain"
	svc "workclock/internal/services/tracking/service"
)

// Register mounts tracking endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.StateChangeInput](r, "/state", h.state)
	httpkit.PostJSON[domain.CommandInput](r, "/command", h.command)
	httpkit.PostJSON[domain.NoteInput](r, "/note", h.note)
	httpkit.Get(r, "/active", h.active)
	httpkit.Get(r, "/sessions", h.sessions)
}

type handlers struct{ svc svc.Service }

// @Summary Record a state change for the caller
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body domain.StateChangeInput true "Requested state"
// @Success 200 {object} domain.ChangeResult "ok"
// @Router /track/state [post]
func (h *handlers) state(r *stdhttp.Request, in domain.StateChangeInput) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	var ts time.Time
	if in.At != nil {
		ts = *in.At
	}
	return h.svc.RecordStateChange(r.Context(), uid, tracking.State(in.State), ts, in.Note)
}

// @Summary Record a raw bot command for an external identity
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body domain.CommandInput true "Command"
// @Success 200 {object} domain.ChangeResult "ok"
// @Router /track/command [post]
func (h *handlers) command(r *stdhttp.Request, in domain.CommandInput) (any, error) {
	return h.svc.RecordCommand(r.Context(), in)
}

// @Summary Attach a note to one of the caller's sessions
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body domain.NoteInput true "Note"
// @Success 200 {object} any "ok"
// @Router /track/note [post]
func (h *handlers) note(r *stdhttp.Request, in domain.NoteInput) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.SetNote(r.Context(), uid, in.SessionID, in.Note); err != nil {
		return nil, err
	}
	return map[string]string{"status": "ok"}, nil
}

// @Summary The caller's active session, null when idle
// @Tags Tracking
// @Produce json
// @Success 200 {object} domain.Session "ok"
// @Router /track/active [get]
func (h *handlers) active(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ActiveSession(r.Context(), uid)
}

// @Summary The caller's sessions started within [from, to)
// @Tags Tracking
// @Produce json
// @Param from query string true "RFC3339 lower bound"
// @Param to query string true "RFC3339 upper bound (exclusive)"
// @Success 200 {array} domain.Session "ok"
// @Router /track/sessions [get]
func (h *handlers) sessions(r *stdhttp.Request) (any, error) {
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
	return h.svc.SessionsInRange(r.Context(), uid, from, to)
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
