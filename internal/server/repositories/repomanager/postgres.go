package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imgbox/internal/dbx"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/migrations"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct {
	logger logging.Logger
}

func NewPostgresRepositoryManager(logger logging.Logger) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{logger: logger}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations.Migrations, "postgres", migrations.PostgresDir, m.logger)
}
