// Package db opens the relational store backing imgbox and classifies the
// driver errors that matter to callers. The *sql.DB it returns is owned by
// the process entry point and injected everywhere else.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// Store kinds, mirrored from config to keep this package import-free of it.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// Ping retry policy; vars so tests can shorten them.
var (
	pingRetries uint64 = 3
	pingBackoff        = 200 * time.Millisecond
)

// DriverName maps a store kind onto its registered database/sql driver.
func DriverName(kind string) (string, error) {
	switch kind {
	case KindPostgres:
		return "pgx", nil
	case KindSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported store kind %q", kind)
	}
}

// Open opens the store and pings it, retrying while the store looks
// unreachable. The handle is closed again if the store never answers.
// SQLite handles are limited to one connection so writers never contend.
func Open(ctx context.Context, kind, dsn string) (*sql.DB, error) {
	driver, err := DriverName(kind)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if kind == KindSQLite {
		db.SetMaxOpenConns(1)
	}

	b := retry.WithMaxRetries(pingRetries, retry.NewExponential(pingBackoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			if IsUnavailable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		if IsUnavailable(err) {
			return nil, fmt.Errorf("%w: ping: %w", common.ErrorStoreUnavailable, err)
		}
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}
