// Package server assembles the imgbox server: store, migrations, services,
// tracing and the HTTP front end. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/config"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imgbox/internal/server/services"
	"github.com/dmitrijs2005/imgbox/internal/server/shared/db"
	"github.com/dmitrijs2005/imgbox/internal/telemetry"

	hs "github.com/dmitrijs2005/imgbox/internal/server/http"
)

const (
	serviceName      = "imgbox"
	telemetryTimeout = 5 * time.Second
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	server        *hs.HTTPServer
	shutdownTrace telemetry.ShutdownFunc
}

// NewApp opens the store, applies migrations and builds the services. On
// error everything opened so far is released.
func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	ctx := context.Background()

	shutdownTrace, err := telemetry.Setup(ctx, serviceName, c.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	sqlDB, err := db.Open(ctx, c.DBKind, c.DSN())
	if err != nil {
		_ = shutdownTrace(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		_ = shutdownTrace(ctx)
		return nil, err
	}
	app.shutdownTrace = shutdownTrace

	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, sqlDB *sql.DB) (*App, error) {
	rm, err := repomanager.NewRepositoryManager(c.DBKind, logger)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, sqlDB); err != nil {
		return nil, err
	}

	us := services.NewUserService(sqlDB, rm, nil, logger)
	up, err := services.NewUploadService(c.UploadDir, c.MaxUploadSize, logger)
	if err != nil {
		return nil, err
	}

	srv := hs.NewHTTPServer(c.HTTPAddr, logger, us, up, sqlDB, c.RequestTimeout)

	return &App{config: c, logger: logger, db: sqlDB, server: srv}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store and flushes traces.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	return errors.Join(runErr, app.close())
}

func (app *App) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
	defer cancel()

	var errs []error
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	if app.shutdownTrace != nil {
		if err := app.shutdownTrace(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}
