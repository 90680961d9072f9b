package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/codex-reversi/internal/app"
    "github.com/jaminalder/codex-reversi/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "coord": func(r, c int) domain.Coord { return domain.Coord{Row: r, Col: c} },
        "cellSymbol": func(c domain.Cell) string {
            switch c {
            case domain.Dark:
                return "●"
            case domain.Light:
                return "○"
            default:
                return ""
            }
        },
        "cellClass": func(c domain.Cell) string { return "cell " + c.String() },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Reversi</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.cell{width:50px;height:50px;margin:2px;background:#228B22;border:1px solid #000;font-size:36px}
.cell.dark{color:#000}.cell.light{color:#fff}.cell.legal{outline:2px dashed #ff0}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Reversi</h1><form action="/game" method="post"><button>New game</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Reversi</h1>
{{if .Spectator}}<p class="note">You are watching this game.</p>{{end}}
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="score">Dark {{.Dark}} · Light {{.Light}} · {{.Status}}</p>
  {{range $r, $row := .Rows}}
  <div class="row">
    {{range $c, $cell := $row}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit" class="{{cellClass $cell}}{{if index $.Legal (coord $r $c)}} legal{{end}}">{{cellSymbol $cell}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .Over}}
  <div class="result">
    <p>{{.Result}}</p>
    <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Play again</button></form>
  </div>
  {{end}}
</div>
`

// boardData feeds the board fragment.
type boardData struct {
    ID     string
    Rows   [domain.Size][domain.Size]domain.Cell
    Legal  map[domain.Coord]bool
    Dark   int
    Light  int
    Status string
    Over   bool
    Result string
    Error  string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
    snap := gs.Snapshot
    legal := make(map[domain.Coord]bool, len(snap.Legal))
    for _, m := range snap.Legal {
        legal[m] = true
    }
    return boardData{
        ID:     gs.ID,
        Rows:   snap.Board.Rows(),
        Legal:  legal,
        Dark:   snap.Dark,
        Light:  snap.Light,
        Status: statusText(snap),
        Over:   snap.Result.Over(),
        Result: resultText(snap.Result),
        Error:  errMsg,
    }
}

func statusText(snap app.Snapshot) string {
    switch snap.State {
    case app.HumanTurn:
        return "your move"
    case app.AutomatedTurn:
        return "opponent is thinking"
    default:
        return "game over"
    }
}

func resultText(r domain.Result) string {
    switch {
    case r.Status == domain.Draw:
        return "Draw!"
    case r.Status == domain.Win && r.Winner == app.HumanPlayer:
        return "Dark wins!"
    case r.Status == domain.Win:
        return "Light wins!"
    default:
        return ""
    }
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}

func playerID(r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil {
        return c.Value
    }
    return ""
}

const playerCookie = "player_id"
