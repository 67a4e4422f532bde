package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RunRow struct {
	ID      uuid.UUID
	Score   int
	Played  time.Duration
	EndedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// RecordRun inserts a finished run. Recording the same run twice keeps the
// first row.
func (r *RunRepo) RecordRun(ctx context.Context, id uuid.UUID, score int, played time.Duration) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (id, score, played_ms)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		id, score, played.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}
	return nil
}

// Top returns the n best runs, best first.
func (r *RunRepo) Top(ctx context.Context, n int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, score, played_ms, ended_at
		 FROM runs ORDER BY score DESC, ended_at LIMIT $1`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		var playedMS int64
		if err := rows.Scan(&row.ID, &row.Score, &playedMS, &row.EndedAt); err != nil {
			return nil, err
		}
		row.Played = time.Duration(playedMS) * time.Millisecond
		out = append(out, row)
	}
	return out, rows.Err()
}
