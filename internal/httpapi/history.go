package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"visual_traceroute/tracemap/internal/sqlcgen"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type historyEntry struct {
	ID         string          `json:"id"`
	Generation int64           `json:"generation"`
	Target     string          `json:"target"`
	Status     string          `json:"status"`
	ErrorKind  *string         `json:"error_kind,omitempty"`
	Message    *string         `json:"message,omitempty"`
	HopCount   int32           `json:"hop_count"`
	Hops       json.RawMessage `json:"hops"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	DurationMS int64           `json:"duration_ms"`
}

func toHistoryEntry(run sqlcgen.TraceRun) historyEntry {
	hops := json.RawMessage(run.Hops)
	if len(hops) == 0 {
		hops = json.RawMessage("[]")
	}
	return historyEntry{
		ID:         run.ID,
		Generation: run.Generation,
		Target:     run.Target,
		Status:     run.Status,
		ErrorKind:  run.ErrorKind,
		Message:    run.Message,
		HopCount:   run.HopCount,
		Hops:       hops,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}
}

func parseLimit(raw string) (int32, bool) {
	if raw == "" {
		return defaultHistoryLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return int32(n), true
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not configured", nil)
		return
	}

	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", map[string]any{"limit": r.URL.Query().Get("limit")})
		return
	}

	rows, err := h.history.ListTraceRuns(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list trace runs failed")
		h.writeError(w, http.StatusInternalServerError, "db_error", "failed to list trace history", nil)
		return
	}

	resp := make([]historyEntry, 0, len(rows))
	for _, run := range rows {
		resp = append(resp, toHistoryEntry(run))
	}

	h.writeJSON(w, http.StatusOK, resp)
}
