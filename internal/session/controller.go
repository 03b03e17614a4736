package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"visual_traceroute/tracemap/internal/hop"
)

const recordTimeout = 5 * time.Second

// Tracer issues one traceroute query. A nil error means the service
// answered; the response shape is then described by hop.Response.
type Tracer interface {
	Trace(ctx context.Context, target string) (hop.Response, error)
}

// Recorder persists finished sessions.
type Recorder interface {
	RecordTrace(ctx context.Context, s Session) error
}

// Observer receives trace outcomes for metrics.
type Observer interface {
	ObserveTrace(outcome string, duration time.Duration)
	IncStaleResult()
}

type Options struct {
	Recorder Recorder
	Observer Observer
	Now      func() time.Time
}

// Controller drives trace queries through a Store.
//
// It issues exactly one request per invocation and never retries,
// deduplicates or cancels in-flight queries. Callers keep invocations
// sequential; when they do not, only the newest generation may update the
// store.
type Controller struct {
	log      zerolog.Logger
	tracer   Tracer
	store    *Store
	recorder Recorder
	observer Observer
	now      func() time.Time
}

func NewController(log zerolog.Logger, tracer Tracer, store *Store, opts Options) *Controller {
	if store == nil {
		store = NewStore()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		log:      log,
		tracer:   tracer,
		store:    store,
		recorder: opts.Recorder,
		observer: opts.Observer,
		now:      now,
	}
}

// Session returns the current session.
func (c *Controller) Session() Session {
	return c.store.Snapshot()
}

// RunTrace runs one query to completion and returns the session it
// produced. If a newer query superseded it meanwhile, the returned session
// is not applied to the store.
func (c *Controller) RunTrace(ctx context.Context, target string) (Session, error) {
	started, err := c.start(target, false)
	if err != nil {
		return c.store.Snapshot(), err
	}
	return c.run(ctx, started), nil
}

// Submit enters Loading synchronously and completes the query in the
// background. The query outlives ctx's cancellation; the returned channel
// yields the session the query produced.
func (c *Controller) Submit(ctx context.Context, target string, supersede bool) (Session, <-chan Session, error) {
	started, err := c.start(target, supersede)
	if err != nil {
		return started, nil, err
	}

	done := make(chan Session, 1)
	bg := context.WithoutCancel(ctx)

	go func() {
		done <- c.run(bg, started)
		close(done)
	}()

	return started, done, nil
}

func (c *Controller) start(raw string, supersede bool) (Session, error) {
	target, err := ValidateTarget(raw)
	if err != nil {
		return c.store.Snapshot(), err
	}

	started, err := c.store.Start(target, supersede, c.now())
	if err != nil {
		return started, err
	}

	c.log.Info().
		Str("target", target).
		Uint64("generation", started.Generation).
		Msg("trace started")

	return started, nil
}

func (c *Controller) run(ctx context.Context, started Session) (result Session) {
	ev := Finished{Generation: started.Generation}

	defer func() {
		if r := recover(); r != nil {
			ev.Response = nil
			ev.Err = fmt.Errorf("traceroute query panicked: %v", r)
		}
		ev.At = c.now()
		result = c.finish(ctx, started, ev)
	}()

	ev.Response, ev.Err = c.tracer.Trace(ctx, started.Target)

	return result
}

func (c *Controller) finish(ctx context.Context, started Session, ev Finished) Session {
	result := Reduce(started, ev)

	if _, applied := c.store.Dispatch(ev); !applied {
		c.log.Debug().
			Str("target", started.Target).
			Uint64("generation", started.Generation).
			Msg("discarding superseded trace result")
		if c.observer != nil {
			c.observer.IncStaleResult()
		}
		return result
	}

	logEvent := c.log.Info()
	if result.Status == StatusError {
		logEvent = c.log.Warn().Err(ev.Err)
	}
	logEvent.
		Str("target", result.Target).
		Uint64("generation", result.Generation).
		Str("outcome", result.Outcome()).
		Int("hops", len(result.Hops)).
		Int64("duration_ms", result.Duration().Milliseconds()).
		Msg("trace finished")

	if c.observer != nil {
		c.observer.ObserveTrace(result.Outcome(), result.Duration())
	}

	if c.recorder != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()

		if err := c.recorder.RecordTrace(rctx, result); err != nil {
			c.log.Error().Err(err).Str("target", result.Target).Msg("record trace failed")
		}
	}

	return result
}
