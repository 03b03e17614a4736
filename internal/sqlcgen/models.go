package sqlcgen

import "time"

type TraceRun struct {
	ID         string
	Generation int64
	Target     string
	Status     string
	ErrorKind  *string
	Message    *string
	HopCount   int32
	Hops       []byte
	StartedAt  time.Time
	FinishedAt time.Time
}
