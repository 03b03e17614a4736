package sqlcgen

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX matches the minimal interface needed from pgxpool.Pool or pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const insertTraceRun = `-- name: InsertTraceRun :exec
INSERT INTO trace_runs (
  id,
  generation,
  target,
  status,
  error_kind,
  message,
  hop_count,
  hops,
  started_at,
  finished_at
)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, COALESCE($8::jsonb, '[]'::jsonb), $9, $10)
ON CONFLICT (id) DO NOTHING
`

type InsertTraceRunParams struct {
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

func (q *Queries) InsertTraceRun(ctx context.Context, arg InsertTraceRunParams) error {
	_, err := q.db.Exec(ctx, insertTraceRun,
		arg.ID,
		arg.Generation,
		arg.Target,
		arg.Status,
		arg.ErrorKind,
		arg.Message,
		arg.HopCount,
		arg.Hops,
		arg.StartedAt,
		arg.FinishedAt,
	)
	return err
}

const listTraceRuns = `-- name: ListTraceRuns :many
SELECT id::text,
       generation,
       target,
       status,
       error_kind,
       message,
       hop_count,
       hops,
       started_at,
       finished_at
FROM trace_runs
ORDER BY finished_at DESC, id DESC
LIMIT $1
`

func (q *Queries) ListTraceRuns(ctx context.Context, limit int32) ([]TraceRun, error) {
	rows, err := q.db.Query(ctx, listTraceRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TraceRun
	for rows.Next() {
		var i TraceRun
		if err := rows.Scan(
			&i.ID,
			&i.Generation,
			&i.Target,
			&i.Status,
			&i.ErrorKind,
			&i.Message,
			&i.HopCount,
			&i.Hops,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
