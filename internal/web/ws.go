package web

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"

    "github.com/jaminalder/codex-reversi/internal/app"
)

const (
    wsWriteWait  = 10 * time.Second
    wsPongWait   = 60 * time.Second
    wsPingPeriod = 30 * time.Second
    wsReadLimit  = 4096
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 4096,
}

// clientMessage is what a websocket client sends.
type clientMessage struct {
    Type string `json:"type"` // "move" or "reset"
    Row  int    `json:"row"`
    Col  int    `json:"col"`
}

type wsClient struct {
    id      string
    player  string
    conn    *websocket.Conn
    svc     *app.Service
    replies chan []byte
}

// ws streams JSON snapshots and accepts move and reset requests.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn("websocket upgrade failed", "game", id, "err", err)
        return
    }
    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        _ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
        conn.Close()
        return
    }
    defer unsub()

    c := &wsClient{id: id, player: playerID(r), conn: conn, svc: h.svc, replies: make(chan []byte, 8)}
    if b, err := json.Marshal(newStateView(*gs)); err == nil {
        _ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
        _ = conn.WriteMessage(websocket.TextMessage, b)
    }
    h.log.Debug("websocket connected", "game", id, "player", c.player)

    done := make(chan struct{})
    go func() {
        defer close(done)
        c.writePump(ctx, updates)
    }()
    c.readPump()
    cancel()
    <-done
    h.log.Debug("websocket disconnected", "game", id, "player", c.player)
}

func (c *wsClient) readPump() {
    c.conn.SetReadLimit(wsReadLimit)
    _ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
    c.conn.SetPongHandler(func(string) error {
        return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
    })
    for {
        _, data, err := c.conn.ReadMessage()
        if err != nil {
            return
        }
        var msg clientMessage
        if err := json.Unmarshal(data, &msg); err != nil {
            c.reply(errorView{Type: "error", Error: "invalid message"})
            continue
        }
        c.handle(msg)
    }
}

func (c *wsClient) handle(msg clientMessage) {
    var gs *app.GameState
    var err error
    switch msg.Type {
    case "move":
        gs, err = c.svc.RequestMove(c.id, c.player, msg.Row, msg.Col)
    case "reset":
        gs, err = c.svc.Reset(c.id, c.player)
    default:
        c.reply(errorView{Type: "error", Error: "unknown message type"})
        return
    }
    if err == nil {
        // the new state arrives through the subscription
        return
    }
    if errors.Is(err, app.ErrNotFound) || gs == nil {
        c.reply(errorView{Type: "error", Error: app.ErrNotFound.Error()})
        return
    }
    c.reply(errorView{Type: "error", Error: moveError(err, gs)})
}

func (c *wsClient) reply(v any) {
    b, err := json.Marshal(v)
    if err != nil {
        return
    }
    select {
    case c.replies <- b:
    default:
    }
}

// writePump owns all writes to the connection and closes it on exit.
func (c *wsClient) writePump(ctx context.Context, updates <-chan app.GameState) {
    ticker := time.NewTicker(wsPingPeriod)
    defer func() {
        ticker.Stop()
        c.conn.Close()
    }()
    write := func(kind int, b []byte) error {
        _ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
        return c.conn.WriteMessage(kind, b)
    }
    for {
        select {
        case <-ctx.Done():
            _ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
            return
        case gs, ok := <-updates:
            if !ok {
                _ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
                return
            }
            b, err := json.Marshal(newStateView(gs))
            if err != nil {
                continue
            }
            if err := write(websocket.TextMessage, b); err != nil {
                return
            }
        case b := <-c.replies:
            if err := write(websocket.TextMessage, b); err != nil {
                return
            }
        case <-ticker.C:
            if err := write(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}
