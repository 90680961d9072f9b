// Command reversi-tui plays one game against the automated player in the
// terminal.
package main

import (
    "context"
    "fmt"
    "io"
    "os"
    "os/signal"
    "syscall"

    "github.com/gdamore/tcell/v2"

    "github.com/jaminalder/codex-reversi/internal/app"
    "github.com/jaminalder/codex-reversi/internal/config"
    "github.com/jaminalder/codex-reversi/internal/tui"
)

func main() {
    if err := run(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func run() error {
    cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv)
    if err != nil {
        return err
    }
    strategy, _ := cfg.Opponent()

    // the screen owns stdout, so logs go to REVERSI_LOG_FILE or nowhere
    var w io.Writer = io.Discard
    if path := os.Getenv("REVERSI_LOG_FILE"); path != "" {
        f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
        if err != nil {
            return fmt.Errorf("open log file: %w", err)
        }
        defer f.Close()
        w = f
    }

    session := app.NewSession(app.SessionConfig{
        Interval:       cfg.OpponentInterval,
        Strategy:       strategy,
        EndWhenBlocked: cfg.EndWhenBlocked,
        Logger:         cfg.Logger(w),
    })
    defer session.Close()

    screen, err := tcell.NewScreen()
    if err != nil {
        return fmt.Errorf("create screen: %w", err)
    }
    if err := screen.Init(); err != nil {
        return fmt.Errorf("init screen: %w", err)
    }
    defer screen.Fini()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    return tui.New(screen, session).Run(ctx)
}
