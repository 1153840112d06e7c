// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/achbook/migrations"
)

// VersionTable keeps goose bookkeeping separate from other tools sharing the database.
const VersionTable = "achbook_db_version"

// Up runs all pending migrations from the embedded filesystem.
func Up(ctx context.Context, dsn string, log *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(VersionTable)
	goose.SetLogger(zapLogger{log: log.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Files lists embedded migration file names in apply order.
func Files() ([]string, error) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// zapLogger adapts zap to goose.Logger.
type zapLogger struct{ log *zap.SugaredLogger }

func (l zapLogger) Fatalf(format string, v ...any) { l.log.Fatalf(strings.TrimSpace(format), v...) }
func (l zapLogger) Printf(format string, v ...any) { l.log.Infof(strings.TrimSpace(format), v...) }
