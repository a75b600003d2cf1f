// Package repomanager vends repositories for one store kind and runs the
// embedded goose migrations for it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/imgbox/internal/dbx"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/users"
	"github.com/dmitrijs2005/imgbox/internal/server/shared/db"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// NewRepositoryManager returns the manager matching kind.
func NewRepositoryManager(kind string, logger logging.Logger) (RepositoryManager, error) {
	switch kind {
	case db.KindPostgres:
		return NewPostgresRepositoryManager(logger), nil
	case db.KindSQLite:
		return NewSQLiteRepositoryManager(logger), nil
	default:
		return nil, fmt.Errorf("unsupported store kind %q", kind)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// migrate points goose at the embedded migrations and applies dir.
// goose keeps its settings in package state, so calls are not safe to
// run concurrently; the server migrates once at startup.
func migrate(ctx context.Context, sqlDB *sql.DB, base fs.FS, dialect, dir string, logger logging.Logger) error {
	goose.SetBaseFS(base)
	goose.SetLogger(gooseLogger{ctx: ctx, l: logger})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through logging.Logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info(g.ctx, fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Error(g.ctx, fmt.Sprintf(format, v...))
}

