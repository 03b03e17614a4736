package httpapi

import (
	"errors"
	"net/http"

	"visual_traceroute/tracemap/internal/mapview"
	"visual_traceroute/tracemap/internal/session"
)

type traceRequest struct {
	Target    string `json:"target"`
	Supersede bool   `json:"supersede,omitempty"`
}

func (h *Handler) handleStartTrace(w http.ResponseWriter, r *http.Request) {
	var req traceRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body", map[string]any{"error": err.Error()})
		return
	}

	started, _, err := h.traces.Submit(r.Context(), req.Target, req.Supersede)
	switch {
	case errors.Is(err, session.ErrEmptyTarget):
		h.writeError(w, http.StatusBadRequest, "invalid_target", "target is required", nil)
		return
	case errors.Is(err, session.ErrInvalidTarget):
		h.writeError(w, http.StatusBadRequest, "invalid_target", "target must be a domain name or IP address", map[string]any{"target": req.Target})
		return
	case errors.Is(err, session.ErrTraceInProgress):
		h.writeError(w, http.StatusConflict, "trace_in_progress", "a trace is already in progress", map[string]any{
			"target":     started.Target,
			"generation": started.Generation,
		})
		return
	case err != nil:
		h.log.Error().Err(err).Msg("start trace failed")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to start trace", nil)
		return
	}

	h.writeJSON(w, http.StatusAccepted, started)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.traces.Session())
}

func (h *Handler) handleGetView(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, mapview.Project(h.traces.Session(), h.settings))
}
