package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"visual_traceroute/tracemap/internal/hop"
	"visual_traceroute/tracemap/internal/session"
	"visual_traceroute/tracemap/internal/sqlcgen"
)

var ErrUnfinishedSession = errors.New("session has not finished")

type traceRunWriter interface {
	InsertTraceRun(ctx context.Context, arg sqlcgen.InsertTraceRunParams) error
}

// Recorder writes finished sessions to trace_runs.
type Recorder struct {
	q traceRunWriter
}

func NewRecorder(q traceRunWriter) *Recorder {
	return &Recorder{q: q}
}

func (r *Recorder) RecordTrace(ctx context.Context, s session.Session) error {
	params, err := TraceRunParams(s)
	if err != nil {
		return err
	}
	if err := r.q.InsertTraceRun(ctx, params); err != nil {
		return fmt.Errorf("insert trace run: %w", err)
	}
	return nil
}

// TraceRunParams maps a finished session onto a trace_runs row.
func TraceRunParams(s session.Session) (sqlcgen.InsertTraceRunParams, error) {
	if !s.Done() || s.ID == nil || s.StartedAt == nil || s.FinishedAt == nil {
		return sqlcgen.InsertTraceRunParams{}, ErrUnfinishedSession
	}

	hops := s.Hops
	if hops == nil {
		hops = []hop.Hop{}
	}
	b, err := json.Marshal(hops)
	if err != nil {
		return sqlcgen.InsertTraceRunParams{}, fmt.Errorf("encode hops: %w", err)
	}

	return sqlcgen.InsertTraceRunParams{
		ID:         s.ID.String(),
		Generation: int64(s.Generation),
		Target:     s.Target,
		Status:     string(s.Status),
		ErrorKind:  optional(string(s.ErrorKind)),
		Message:    optional(s.Message()),
		HopCount:   int32(len(s.Hops)),
		Hops:       b,
		StartedAt:  *s.StartedAt,
		FinishedAt: *s.FinishedAt,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
