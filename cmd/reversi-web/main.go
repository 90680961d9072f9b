// Command reversi-web serves browser games over HTTP with SSE and websocket
// updates.
package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/codex-reversi/internal/app"
    "github.com/jaminalder/codex-reversi/internal/config"
    "github.com/jaminalder/codex-reversi/internal/web"
)

func main() {
    cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv)
    logger := cfg.Logger(os.Stdout)
    if err != nil {
        logger.Error("invalid configuration", "err", err)
        os.Exit(2)
    }
    strategy, _ := cfg.Opponent()

    svc := app.NewService(app.SessionConfig{
        Interval:       cfg.OpponentInterval,
        Strategy:       strategy,
        EndWhenBlocked: cfg.EndWhenBlocked,
        Logger:         logger,
    })
    defer svc.Shutdown()

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, logger),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    errc := make(chan error, 1)
    go func() {
        logger.Info("listening", "addr", cfg.Addr, "strategy", strategy.Name(), "interval", cfg.OpponentInterval)
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        if !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server failed", "err", err)
            os.Exit(1)
        }
    case <-ctx.Done():
        logger.Info("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := srv.Shutdown(shutdownCtx); err != nil {
            logger.Warn("shutdown", "err", err)
        }
    }
}
