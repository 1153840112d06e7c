package postgres

import (
	"context"
	"time"

	"github.com/and161185/achbook/internal/model"
)

// DefaultDateLayout formats achievement dates when no layout is configured.
const DefaultDateLayout = "2006-01-02"

// AchievementRepo implements AchievementRepository using PostgreSQL.
type AchievementRepo struct {
	db     *DB
	layout string
	loc    *time.Location
}

// NewAchievementRepo constructs an achievement repository formatting dates with
// layout in UTC.
func NewAchievementRepo(db *DB, layout string) *AchievementRepo {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return &AchievementRepo{db: db, layout: layout, loc: time.UTC}
}

// ListForPlayer returns name, description and date triples ordered by date received.
func (r *AchievementRepo) ListForPlayer(ctx context.Context, id model.PlayerID) ([]string, error) {
	const q = `
SELECT name, description, achieved_at
FROM achievements
WHERE player_id=$1
ORDER BY achieved_at ASC, name ASC`
	rows, err := r.db.Pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			name, desc string
			at         time.Time
		)
		if err = rows.Scan(&name, &desc, &at); err != nil {
			return nil, err
		}
		out = append(out, name, desc, at.In(r.loc).Format(r.layout))
	}
	return out, rows.Err()
}
