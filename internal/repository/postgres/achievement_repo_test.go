package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/achbook/internal/repository"
)

var _ repository.AchievementRepository = (*AchievementRepo)(nil)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

const listQuery = `SELECT name, description, achieved_at FROM achievements WHERE player_id=\$1 ORDER BY achieved_at ASC, name ASC`

func TestAchievementRepo_ListForPlayer_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAchievementRepo(db, "")

	ctx := context.Background()
	playerID := uuid.Must(uuid.NewV4())
	d1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC)

	mock.ExpectQuery(listQuery).
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "description", "achieved_at"}).
			AddRow("Explorer", "Visited 10 biomes", d1).
			AddRow("Miner", "Mined 100 ores", d2))

	out, err := r.ListForPlayer(ctx, playerID)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Explorer", "Visited 10 biomes", "2024-01-01",
		"Miner", "Mined 100 ores", "2024-01-02",
	}, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementRepo_ListForPlayer_CustomLayout(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAchievementRepo(db, "02/01/2006")

	playerID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(listQuery).
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "description", "achieved_at"}).
			AddRow("Explorer", "Visited 10 biomes", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	out, err := r.ListForPlayer(context.Background(), playerID)
	require.NoError(t, err)
	require.Equal(t, "05/03/2024", out[2])
}

func TestAchievementRepo_ListForPlayer_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAchievementRepo(db, "")

	playerID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(listQuery).
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "description", "achieved_at"}))

	out, err := r.ListForPlayer(context.Background(), playerID)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestAchievementRepo_ListForPlayer_QueryError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAchievementRepo(db, "")

	playerID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(listQuery).
		WithArgs(playerID).
		WillReturnError(errors.New("boom"))

	_, err := r.ListForPlayer(context.Background(), playerID)
	require.Error(t, err)
}

func TestAchievementRepo_ListForPlayer_RowError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAchievementRepo(db, "")

	playerID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(listQuery).
		WithArgs(playerID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "description", "achieved_at"}).
			AddRow("Explorer", "Visited 10 biomes", time.Now()).
			RowError(0, errors.New("row fail")))

	_, err := r.ListForPlayer(context.Background(), playerID)
	require.Error(t, err)
}
