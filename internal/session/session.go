// Package session owns the lifecycle of a single trace query.
//
// State lives in a Store and only changes through Reduce, so every
// transition (Idle -> Loading -> Success|Error -> Loading ...) is a pure
// function of the previous session and an Event.
package session

import (
	"time"

	"github.com/google/uuid"

	"visual_traceroute/tracemap/internal/hop"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorKind classifies why a finished session is not a plain success.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindEmptyResult       ErrorKind = "empty_result"
	KindServerError       ErrorKind = "server_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindTransportFailure  ErrorKind = "transport_failure"
)

const (
	MessageNoHops      = "No hops found."
	MessageUnexpected  = "Unexpected response from server."
	MessageFetchFailed = "Failed to fetch traceroute."
)

// Session is the state of one trace query.
//
// Hops is non-empty only in StatusSuccess and ErrorMessage is set only in
// StatusError. Advisory carries the non-fatal empty-result notice that
// accompanies a successful but empty trace.
type Session struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Generation   uint64     `json:"generation"`
	Target       string     `json:"target"`
	Status       Status     `json:"status"`
	Hops         []hop.Hop  `json:"hops"`
	ErrorKind    ErrorKind  `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Advisory     string     `json:"advisory,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Idle is the initial session.
func Idle() Session {
	return Session{Status: StatusIdle, Hops: []hop.Hop{}}
}

// Done reports whether the session reached a terminal status.
func (s Session) Done() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}

// Message is what a user should read about the session: the error, the
// empty-result advisory, or nothing.
func (s Session) Message() string {
	if s.ErrorMessage != "" {
		return s.ErrorMessage
	}
	return s.Advisory
}

// Outcome is a short label for a finished session, used for metrics and
// history rows.
func (s Session) Outcome() string {
	switch {
	case !s.Done():
		return string(s.Status)
	case s.ErrorKind != KindNone:
		return string(s.ErrorKind)
	default:
		return "success"
	}
}

// Duration is the wall time between start and finish, or zero.
func (s Session) Duration() time.Duration {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(*s.StartedAt)
}
