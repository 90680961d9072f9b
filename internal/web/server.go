package web

import (
    "io"
    "log/slog"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/codex-reversi/internal/app"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, logger *slog.Logger) http.Handler {
    if logger == nil {
        logger = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(requestLogger(logger))
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), log: logger}
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Delete("/", h.close)
        r.Post("/play", h.play)
        r.Post("/reset", h.reset)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}
