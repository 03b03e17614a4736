package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"visual_traceroute/tracemap/internal/hop"
)

// Event is either Started or Finished.
type Event interface {
	isEvent()
}

// Started opens a new session, discarding whatever came before.
type Started struct {
	ID         uuid.UUID
	Generation uint64
	Target     string
	At         time.Time
}

// Finished carries the result of the query issued for Generation. Err is a
// transport failure; otherwise Response describes the payload.
type Finished struct {
	Generation uint64
	Response   hop.Response
	Err        error
	At         time.Time
}

func (Started) isEvent()  {}
func (Finished) isEvent() {}

// serverMessenger is implemented by transport errors that carry the
// service's own explanation.
type serverMessenger interface {
	ServerMessage() string
}

// Reduce applies ev to s. A Finished event only applies to the Loading
// session of the same generation; anything else leaves s untouched.
func Reduce(s Session, ev Event) Session {
	switch e := ev.(type) {
	case Started:
		id := e.ID
		at := e.At
		return Session{
			ID:         &id,
			Generation: e.Generation,
			Target:     e.Target,
			Status:     StatusLoading,
			Hops:       []hop.Hop{},
			StartedAt:  &at,
		}
	case Finished:
		if s.Status != StatusLoading || s.Generation != e.Generation {
			return s
		}
		return finish(s, e)
	default:
		return s
	}
}

func finish(s Session, e Finished) Session {
	at := e.At
	next := Session{
		ID:         s.ID,
		Generation: s.Generation,
		Target:     s.Target,
		Hops:       []hop.Hop{},
		StartedAt:  s.StartedAt,
		FinishedAt: &at,
	}

	if e.Err != nil {
		next.Status = StatusError
		next.ErrorKind = KindTransportFailure
		next.ErrorMessage = MessageFetchFailed

		var sm serverMessenger
		if errors.As(e.Err, &sm) && sm.ServerMessage() != "" {
			next.ErrorMessage = sm.ServerMessage()
		}
		return next
	}

	switch r := e.Response.(type) {
	case hop.Hops:
		next.Status = StatusSuccess
		if len(r.Hops) == 0 {
			next.ErrorKind = KindEmptyResult
			next.Advisory = MessageNoHops
			return next
		}
		next.Hops = r.Hops
	case hop.ServerError:
		next.Status = StatusError
		next.ErrorKind = KindServerError
		next.ErrorMessage = r.Message
	default:
		next.Status = StatusError
		next.ErrorKind = KindMalformedResponse
		next.ErrorMessage = MessageUnexpected
	}

	return next
}
