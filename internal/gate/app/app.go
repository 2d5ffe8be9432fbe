// Package app wires configuration, the revocation store, the auth
// service and the HTTP surface into a runnable gate.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spectrelabs/authgate/internal/gate/credentials"
	gatehttp "github.com/spectrelabs/authgate/internal/gate/http"
	"github.com/spectrelabs/authgate/internal/gate/service"
	"github.com/spectrelabs/authgate/internal/gate/store"
	"github.com/spectrelabs/authgate/internal/gate/store/drivers/memory"
	"github.com/spectrelabs/authgate/internal/gate/store/drivers/sqlite"
	"github.com/spectrelabs/authgate/pkg/httpx"
	"github.com/spectrelabs/authgate/pkg/jwtx"
	"github.com/spectrelabs/authgate/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the gate with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	revocations store.Revocations
	authService *service.AuthService
	sweeper     *service.SweeperService
	credentials credentials.Source

	server *http.Server
	router *gatehttp.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.GeneratedKey {
		app.logger.Warn("AUTH_SECRET_KEY not set; generated a random dev key, tokens will not survive restart")
	}
	if len(cfg.SecretKey) < jwtx.RecommendedKeyBytes {
		app.logger.Warn("AUTH_SECRET_KEY is shorter than recommended", "min_bytes", jwtx.RecommendedKeyBytes)
	}

	if err := app.initRevocations(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.sweeper.Start()

	app.logger.Info("authgate starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"require_auth", app.cfg.RequireAuth,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the server, the sweeper, and the revocation store in
// that order, giving in-flight requests a deadline to finish.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.sweeper.Stop()

	if err := app.revocations.Close(); err != nil {
		app.logger.Error("error closing revocation store", "error", err)
		return err
	}

	app.logger.Info("authgate stopped")
	return nil
}

// initRevocations picks the revocation backend: SQLite when a database
// file is configured, otherwise in-process memory. The memory store is
// the baseline contract; neither backend makes revocations visible to
// other instances.
func (app *Application) initRevocations() error {
	if app.cfg.DatabaseFile == "" {
		app.revocations = memory.NewStore()
		app.logger.Info("using in-memory revocation store")
		return nil
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open revocation database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.revocations = db
	app.logger.Info("using sqlite revocation store", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initServices() error {
	codec, err := jwtx.NewCodec(app.cfg.SecretKey)
	if err != nil {
		return err
	}

	app.authService = &service.AuthService{
		Codec:       codec,
		Revocations: app.revocations,
		Issuer:      app.cfg.Issuer,
		TokenTTL:    app.cfg.TokenExpiry,
	}

	app.sweeper = service.NewSweeperService(app.revocations, app.logger, app.cfg.SweepInterval)

	src, err := credentials.ParseSeed(app.cfg.SeedUsers)
	if err != nil {
		return fmt.Errorf("failed to parse AUTH_SEED_USERS: %w", err)
	}
	app.credentials = src

	return nil
}

func (app *Application) initHTTP() {
	app.router = gatehttp.NewRouter(
		app.authService,
		app.credentials,
		app.revocations,
		httpx.GuardConfig{
			RequireAuth: app.cfg.RequireAuth,
			PublicPaths: app.cfg.PublicPaths,
		},
		BuildVersion,
		app.logger,
	)
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
