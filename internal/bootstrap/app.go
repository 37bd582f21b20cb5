package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/legal-assistant/internal/infra/config"
)

const defaultShutdownGrace = 10 * time.Second

// App owns the API server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server}
}

// Run serves analysis traffic until ctx is cancelled or the listener fails.
// In-flight analyses get the configured grace period to finish.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("legal assistant api starting",
			"address", a.server.Addr,
			"summarization_model", a.cfg.Inference.SummarizationModel,
			"nli_model", a.cfg.Inference.NLIModel,
			"pdf_engine", a.cfg.PDF.Engine,
			"ledger", a.cfg.Ledger.Driver,
			"auth", a.cfg.Auth.Enabled,
		)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		grace := a.cfg.HTTP.ShutdownGrace
		if grace <= 0 {
			grace = defaultShutdownGrace
		}
		a.logger.Info("shutdown signal received", "grace", grace.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
