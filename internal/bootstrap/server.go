package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgallion1/clausewise/internal/api"
)

// Serve runs the HTTP API and the job workers until ctx is cancelled, then
// shuts both down.
func (a *App) Serve(ctx context.Context) error {
	orch := a.NewOrchestrator()
	orch.Start(ctx)

	srv := api.NewServer(orch, a.Stats, a.Metrics, a.Log, a.Config)
	httpServer := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("starting clausewise", "port", a.Config.Port, "workers", a.Config.WorkerCount, "backend", a.Config.GenerativeBackend)
		errCh <- httpServer.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		a.Log.Info("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn("http shutdown", "error", err)
	}
	orch.Stop()
	a.Close()
	return serveErr
}
