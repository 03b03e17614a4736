package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"visual_traceroute/tracemap/internal/db"
	"visual_traceroute/tracemap/internal/mapview"
	"visual_traceroute/tracemap/internal/metrics"
	"visual_traceroute/tracemap/internal/session"
	"visual_traceroute/tracemap/internal/sqlcgen"
)

type traceController interface {
	Session() session.Session
	Submit(ctx context.Context, target string, supersede bool) (session.Session, <-chan session.Session, error)
}

type historyQueries interface {
	ListTraceRuns(ctx context.Context, limit int32) ([]sqlcgen.TraceRun, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Pool     *db.Pool
	Metrics  *metrics.Metrics
	Settings *mapview.Settings
}

type Handler struct {
	log      zerolog.Logger
	traces   traceController
	db       pinger
	history  historyQueries
	metrics  *metrics.Metrics
	settings mapview.Settings
}

func NewHandler(log zerolog.Logger, traces traceController, opts Options) *Handler {
	h := &Handler{
		log:      log,
		traces:   traces,
		metrics:  opts.Metrics,
		settings: mapview.DefaultSettings(),
	}
	if opts.Settings != nil {
		h.settings = *opts.Settings
	}
	if opts.Pool != nil {
		h.db = opts.Pool
		h.history = opts.Pool.Queries()
	}
	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(h.accessLog)

	// Health
	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyZ)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/trace", h.handleStartTrace)
			r.Get("/session", h.handleGetSession)
			r.Get("/view", h.handleGetView)
			r.Get("/history", h.handleListHistory)
		})
	})

	return r
}

// echoRequestID returns the request ID, generated or client-supplied, to
// the caller.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		h.metrics.ObserveHTTPRequest(r.Method, routePattern(r), ww.Status(), duration)

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("http_request")
	})
}

// routePattern keeps metric labels bounded to registered routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	resp := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	}
	if details != nil {
		resp["error"].(map[string]any)["details"] = details
	}
	h.writeJSON(w, status, resp)
}

func decodeJSONStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("unexpected extra data after JSON body")
		}
		return err
	}
	return nil
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleReadyZ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// History is optional; without a database the service is still usable.
	if h.db == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"ready": true})
		return
	}

	if err := h.db.Ping(ctx); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "db_unavailable", "database not ready", map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}
