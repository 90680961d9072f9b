// Package config reads command-line flags, falling back to REVERSI_*
// environment variables, and builds the process logger.
package config

import (
    "errors"
    "flag"
    "fmt"
    "io"
    "log/slog"
    "strconv"
    "strings"
    "time"

    "github.com/jaminalder/codex-reversi/internal/opponent"
)

// Config holds every tunable of the binaries.
type Config struct {
    Addr             string
    OpponentInterval time.Duration
    Strategy         string
    LogLevel         string
    EndWhenBlocked   bool
}

var errInvalid = errors.New("invalid configuration")

// Default returns the built-in settings.
func Default() Config {
    return Config{
        Addr:             ":8080",
        OpponentInterval: 700 * time.Millisecond,
        Strategy:         opponent.FirstLegal{}.Name(),
        LogLevel:         "info",
        EndWhenBlocked:   true,
    }
}

// Load parses args (without the program name). Environment values from getenv
// replace the defaults; explicit flags win over both.
func Load(name string, args []string, getenv func(string) string) (Config, error) {
    cfg := Default()
    if err := cfg.fromEnv(getenv); err != nil {
        return cfg, err
    }

    fs := flag.NewFlagSet(name, flag.ContinueOnError)
    fs.SetOutput(io.Discard)
    fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
    fs.DurationVar(&cfg.OpponentInterval, "opponent-interval", cfg.OpponentInterval, "delay before the automated player moves")
    fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "automated player: "+strings.Join(opponent.Names(), "|"))
    fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
    fs.BoolVar(&cfg.EndWhenBlocked, "end-when-blocked", cfg.EndWhenBlocked, "finish the game when neither side can move")
    if err := fs.Parse(args); err != nil {
        return cfg, fmt.Errorf("parse flags: %w", err)
    }
    return cfg, cfg.Validate()
}

func (c *Config) fromEnv(getenv func(string) string) error {
    if getenv == nil {
        return nil
    }
    if v := getenv("REVERSI_ADDR"); v != "" {
        c.Addr = v
    }
    if v := getenv("REVERSI_OPPONENT_INTERVAL"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("REVERSI_OPPONENT_INTERVAL: %w", err)
        }
        c.OpponentInterval = d
    }
    if v := getenv("REVERSI_STRATEGY"); v != "" {
        c.Strategy = v
    }
    if v := getenv("REVERSI_LOG_LEVEL"); v != "" {
        c.LogLevel = v
    }
    if v := getenv("REVERSI_END_WHEN_BLOCKED"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return fmt.Errorf("REVERSI_END_WHEN_BLOCKED: %w", err)
        }
        c.EndWhenBlocked = b
    }
    return nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
    if c.OpponentInterval <= 0 {
        return fmt.Errorf("%w: opponent interval must be positive, got %s", errInvalid, c.OpponentInterval)
    }
    if _, err := opponent.ByName(c.Strategy); err != nil {
        return fmt.Errorf("%w: %w", errInvalid, err)
    }
    if _, err := parseLevel(c.LogLevel); err != nil {
        return fmt.Errorf("%w: %w", errInvalid, err)
    }
    return nil
}

// Opponent resolves the configured strategy.
func (c Config) Opponent() (opponent.Strategy, error) {
    return opponent.ByName(c.Strategy)
}

// Logger builds a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
    lvl, err := parseLevel(c.LogLevel)
    if err != nil {
        lvl = slog.LevelInfo
    }
    return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(s string) (slog.Level, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return slog.LevelDebug, nil
    case "", "info":
        return slog.LevelInfo, nil
    case "warn", "warning":
        return slog.LevelWarn, nil
    case "error":
        return slog.LevelError, nil
    }
    return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
