// Package server wires the devserver together: database, repositories,
// credential issuer, HTTP API, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/memoirapp/mediakit/internal/logging"
	"github.com/memoirapp/mediakit/internal/server/config"
	"github.com/memoirapp/mediakit/internal/server/httpapi"
	"github.com/memoirapp/mediakit/internal/server/repositories/media"
	"github.com/memoirapp/mediakit/internal/server/repositories/users"
	"github.com/memoirapp/mediakit/internal/server/serverdb"
	"github.com/memoirapp/mediakit/internal/server/stscreds"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *httpapi.Handler
	closeDB func() error
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {

	db, err := serverdb.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var issuer stscreds.Issuer
	if cfg.S3RoleArn != "" {
		issuer, err = stscreds.NewAssumeRoleIssuer(ctx,
			cfg.S3RootUser, cfg.S3RootPassword, cfg.S3Region, cfg.S3BaseEndpoint,
			cfg.S3RoleArn, cfg.S3Bucket, cfg.CredentialTTL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sts init error: %w", err)
		}
	} else {
		logger.Warn(ctx, "no role ARN configured, handing out root storage credentials")
		issuer = stscreds.NewStaticIssuer(cfg.S3RootUser, cfg.S3RootPassword, cfg.CredentialTTL)
	}

	handler := httpapi.NewHandler(cfg, logger,
		users.NewPostgresRepository(db),
		media.NewPostgresRepository(db),
		issuer)

	return &App{config: cfg, logger: logger, handler: handler, closeDB: db.Close}, nil
}

// Run serves the HTTP API until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer func() {
		if err := app.closeDB(); err != nil {
			app.logger.Error(ctx, "closing db", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
