package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"visual_traceroute/tracemap/internal/hop"
	"visual_traceroute/tracemap/internal/session"
	"visual_traceroute/tracemap/internal/sqlcgen"
)

type fakeWriter struct {
	got []sqlcgen.InsertTraceRunParams
	err error
}

func (f *fakeWriter) InsertTraceRun(_ context.Context, arg sqlcgen.InsertTraceRunParams) error {
	f.got = append(f.got, arg)
	return f.err
}

func finishedSession(t *testing.T, body string) session.Session {
	t.Helper()
	id := uuid.MustParse("6f1f7d0e-3b5a-4d8e-9a52-2d4c1c7b9e01")
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(4 * time.Second)

	s := session.Reduce(session.Idle(), session.Started{ID: id, Generation: 3, Target: "example.com", At: started})
	return session.Reduce(s, session.Finished{Generation: 3, Response: hop.Classify([]byte(body)), At: finished})
}

func TestRecorder_Success(t *testing.T) {
	w := &fakeWriter{}
	s := finishedSession(t, `[{"ip":"1.1.1.1","lat":10,"lon":20,"extra":true}]`)

	if err := NewRecorder(w).RecordTrace(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.got) != 1 {
		t.Fatalf("expected one insert, got %d", len(w.got))
	}
	p := w.got[0]
	if p.ID != "6f1f7d0e-3b5a-4d8e-9a52-2d4c1c7b9e01" || p.Generation != 3 || p.Target != "example.com" {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.Status != "success" || p.ErrorKind != nil || p.Message != nil || p.HopCount != 1 {
		t.Fatalf("unexpected params %+v", p)
	}
	if string(p.Hops) != `[{"ip":"1.1.1.1","lat":10,"lon":20,"extra":true}]` {
		t.Fatalf("expected upstream hop json to be kept, got %s", p.Hops)
	}
	if p.FinishedAt.Sub(p.StartedAt) != 4*time.Second {
		t.Fatalf("unexpected timestamps %v %v", p.StartedAt, p.FinishedAt)
	}
}

func TestRecorder_EmptyAndError(t *testing.T) {
	empty, err := TraceRunParams(finishedSession(t, `[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(empty.Hops) != "[]" || empty.ErrorKind == nil || *empty.ErrorKind != "empty_result" {
		t.Fatalf("unexpected empty params %+v", empty)
	}
	if empty.Message == nil || *empty.Message != session.MessageNoHops {
		t.Fatalf("expected advisory message, got %v", empty.Message)
	}

	failed, err := TraceRunParams(finishedSession(t, `{"error":"Invalid target"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed.Status != "error" || failed.Message == nil || *failed.Message != "Invalid target" || failed.HopCount != 0 {
		t.Fatalf("unexpected error params %+v", failed)
	}
}

func TestRecorder_RejectsUnfinished(t *testing.T) {
	w := &fakeWriter{}
	err := NewRecorder(w).RecordTrace(context.Background(), session.Idle())
	if !errors.Is(err, ErrUnfinishedSession) {
		t.Fatalf("expected ErrUnfinishedSession, got %v", err)
	}
	if len(w.got) != 0 {
		t.Fatalf("expected no insert")
	}
}

func TestRecorder_WrapsWriteError(t *testing.T) {
	boom := errors.New("boom")
	err := NewRecorder(&fakeWriter{err: boom}).RecordTrace(context.Background(), finishedSession(t, `[]`))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}
