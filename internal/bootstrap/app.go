package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/vpd-calculator/internal/infra/config"
	"github.com/yanqian/vpd-calculator/internal/infra/gridcache"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server and frame cache janitor lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	janitor *gridcache.Janitor
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, janitor *gridcache.Janitor) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, janitor: janitor}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.janitor != nil {
		a.janitor.Start()
		defer a.janitor.Stop()
	}

	go func() {
		a.logger.Info("http server starting", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
