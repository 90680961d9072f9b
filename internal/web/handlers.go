package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "html/template"
    "io"
    "log/slog"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/codex-reversi/internal/app"
)

type handlers struct {
    svc *app.Service
    tpl *templates
    log *slog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.CreateGame(pid)
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID        string
        Spectator bool
        BoardHTML template.HTML
    }{ID: gs.ID, Spectator: gs.Owner != pid}
    data.BoardHTML = template.HTML(h.renderBoard(*gs, ""))

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))

    var gs *app.GameState
    var err error
    if errR != nil || errC != nil {
        err = errBadCoords
    } else {
        gs, err = h.svc.RequestMove(id, pid, ri, ci)
    }
    if gs == nil {
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, moveError(err, gs)))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Reset(id, pid)
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, moveError(err, gs)))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSON(w, http.StatusNotFound, errorView{Type: "error", Error: app.ErrNotFound.Error()})
        return
    }
    writeJSON(w, http.StatusOK, newStateView(*gs))
}

func (h *handlers) close(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    if gs.Owner != playerID(r) {
        http.Error(w, app.ErrNotOwner.Error(), http.StatusForbidden)
        return
    }
    if err := h.svc.Close(id); err != nil {
        http.NotFound(w, r)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        w.WriteHeader(http.StatusNotFound)
        return
    }
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(h.renderBoard(gs, "")))
            flusher.Flush()
        }
    }
}

var errBadCoords = errors.New("bad coordinates")

// moveError maps a rejected request to the message shown above the board.
func moveError(err error, gs *app.GameState) string {
    switch {
    case err == nil:
        return ""
    case errors.Is(err, app.ErrNotOwner):
        return "You are a spectator"
    case errors.Is(err, errBadCoords):
        return "Invalid coordinates"
    case errors.Is(err, app.ErrMoveRejected):
        switch gs.Snapshot.State {
        case app.Finished:
            return "Game is over"
        case app.AutomatedTurn:
            return "Wait for your turn"
        }
        return "Illegal move"
    default:
        return "Invalid move"
    }
}

func writeJSON(w http.ResponseWriter, code int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    _ = json.NewEncoder(w).Encode(v)
}
