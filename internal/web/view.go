package web

import (
    "strings"

    "github.com/jaminalder/codex-reversi/internal/app"
    "github.com/jaminalder/codex-reversi/internal/domain"
)

// stateView is the JSON form of a game snapshot. Cells use one string per
// row: '.' empty, 'X' dark, 'O' light.
type stateView struct {
    Type   string    `json:"type"`
    ID     string    `json:"id"`
    Cells  []string  `json:"cells"`
    Dark   int       `json:"dark"`
    Light  int       `json:"light"`
    Turn   string    `json:"turn"`
    Result string    `json:"result"`
    Winner string    `json:"winner,omitempty"`
    Legal  [][2]int  `json:"legal"`
    Last   *lastView `json:"last,omitempty"`
}

type lastView struct {
    Row int    `json:"row"`
    Col int    `json:"col"`
    By  string `json:"by"`
}

type errorView struct {
    Type  string `json:"type"`
    Error string `json:"error"`
}

func newStateView(gs app.GameState) stateView {
    snap := gs.Snapshot
    v := stateView{
        Type:   "state",
        ID:     gs.ID,
        Cells:  strings.Split(snap.Board.String(), "\n"),
        Dark:   snap.Dark,
        Light:  snap.Light,
        Turn:   snap.State.String(),
        Result: snap.Result.Status.String(),
        Legal:  make([][2]int, 0, len(snap.Legal)),
    }
    if snap.Result.Status == domain.Win {
        v.Winner = snap.Result.Winner.String()
    }
    for _, m := range snap.Legal {
        v.Legal = append(v.Legal, [2]int{m.Row, m.Col})
    }
    if snap.LastMove != nil {
        v.Last = &lastView{Row: snap.LastMove.Row, Col: snap.LastMove.Col, By: snap.LastBy.String()}
    }
    return v
}

// sseData prefixes every line of a multi-line payload for the event stream.
func sseData(b []byte) string {
    return strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", "\ndata: ")
}
