package cooldown

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/and161185/achbook/internal/model"
)

// PG is a PostgreSQL-backed Store; the row lock taken by the upsert serializes
// concurrent requests for the same player.
type PG struct {
	pool pgxQuerier
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPGWithQuerier constructs a PostgreSQL-backed store over a pool or a test double.
func NewPGWithQuerier(q pgxQuerier) *PG {
	return &PG{pool: q}
}

// TryAcquire grants and records in a single statement. No returned row means the
// conflicting record is still inside the window.
func (s *PG) TryAcquire(ctx context.Context, id model.PlayerID, nowMs, windowMs int64) (bool, error) {
	const q = `
INSERT INTO book_cooldowns (player_id, granted_at_ms)
VALUES ($1, $2)
ON CONFLICT (player_id) DO UPDATE
SET granted_at_ms = GREATEST(book_cooldowns.granted_at_ms, EXCLUDED.granted_at_ms)
WHERE $3::bigint <= 0 OR EXCLUDED.granted_at_ms - book_cooldowns.granted_at_ms >= $3::bigint
RETURNING granted_at_ms`
	var granted int64
	err := s.pool.QueryRow(ctx, q, id, nowMs, windowMs).Scan(&granted)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// Last returns the recorded grant time for a player.
func (s *PG) Last(ctx context.Context, id model.PlayerID) (int64, bool, error) {
	const q = `SELECT granted_at_ms FROM book_cooldowns WHERE player_id=$1`
	var last int64
	err := s.pool.QueryRow(ctx, q, id).Scan(&last)
	switch {
	case err == nil:
		return last, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, false, nil
	default:
		return 0, false, err
	}
}

// Evict deletes records older than the retention window.
func (s *PG) Evict(ctx context.Context, nowMs, retentionMs int64) (int, error) {
	const q = `DELETE FROM book_cooldowns WHERE $1::bigint - granted_at_ms >= $2::bigint`
	tag, err := s.pool.Exec(ctx, q, nowMs, retentionMs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
