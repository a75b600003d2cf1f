package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imgbox/internal/dbx"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/migrations"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends repositories for a single-file SQLite store.
type SQLiteRepositoryManager struct {
	logger logging.Logger
}

func NewSQLiteRepositoryManager(logger logging.Logger) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{logger: logger}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.Migrations, "sqlite3", migrations.SQLiteDir, m.logger)
}
