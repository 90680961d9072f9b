// Package tui renders a session on a terminal and forwards key presses and
// mouse clicks as move requests.
package tui

import (
    "context"
    "fmt"

    "github.com/gdamore/tcell/v2"

    "github.com/jaminalder/codex-reversi/internal/app"
    "github.com/jaminalder/codex-reversi/internal/domain"
)

// Board origin on screen; each cell is two columns wide.
const (
    originX = 3
    originY = 2
)

var (
    styleBoard  = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
    styleLight  = styleBoard.Foreground(tcell.ColorWhite)
    styleCursor = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
    styleText   = tcell.StyleDefault
)

type quitEvent struct{}

// UI draws one session on a tcell screen.
type UI struct {
    screen  tcell.Screen
    session *app.Session
    cursor  domain.Coord
}

// New attaches a UI to screen, which must already be initialised.
func New(screen tcell.Screen, session *app.Session) *UI {
    return &UI{screen: screen, session: session, cursor: domain.Coord{Row: 2, Col: 3}}
}

// Run processes input until the user quits or ctx is cancelled. Session
// changes made by the automated player trigger a redraw.
func (u *UI) Run(ctx context.Context) error {
    u.screen.EnableMouse()
    u.session.SetListener(func(app.Snapshot) {
        _ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
    })
    defer u.session.SetListener(nil)

    stop := make(chan struct{})
    defer close(stop)
    go func() {
        select {
        case <-ctx.Done():
            _ = u.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
        case <-stop:
        }
    }()

    u.Draw()
    for {
        ev := u.screen.PollEvent()
        switch ev := ev.(type) {
        case nil:
            return nil
        case *tcell.EventResize:
            u.screen.Sync()
        case *tcell.EventInterrupt:
            if _, ok := ev.Data().(quitEvent); ok {
                return nil
            }
        case *tcell.EventKey:
            if u.handleKey(ev) {
                return nil
            }
        case *tcell.EventMouse:
            if ev.Buttons()&tcell.Button1 != 0 {
                x, y := ev.Position()
                if m, ok := cellAt(x, y); ok {
                    u.cursor = m
                    u.session.RequestMove(m.Row, m.Col)
                }
            }
        }
        u.Draw()
    }
}

// handleKey reports whether the user asked to quit.
func (u *UI) handleKey(ev *tcell.EventKey) bool {
    switch ev.Key() {
    case tcell.KeyEscape, tcell.KeyCtrlC:
        return true
    case tcell.KeyUp:
        u.move(-1, 0)
    case tcell.KeyDown:
        u.move(1, 0)
    case tcell.KeyLeft:
        u.move(0, -1)
    case tcell.KeyRight:
        u.move(0, 1)
    case tcell.KeyEnter:
        u.session.RequestMove(u.cursor.Row, u.cursor.Col)
    case tcell.KeyRune:
        switch ev.Rune() {
        case 'q':
            return true
        case ' ':
            u.session.RequestMove(u.cursor.Row, u.cursor.Col)
        case 'r':
            u.session.Reset()
        }
    }
    return false
}

func (u *UI) move(dr, dc int) {
    if r, c := u.cursor.Row+dr, u.cursor.Col+dc; domain.InBounds(r, c) {
        u.cursor = domain.Coord{Row: r, Col: c}
    }
}

// cellAt maps a screen position to a board cell.
func cellAt(x, y int) (domain.Coord, bool) {
    if x < originX || y < originY {
        return domain.Coord{}, false
    }
    r, c := y-originY, (x-originX)/2
    return domain.Coord{Row: r, Col: c}, domain.InBounds(r, c)
}

// Draw renders the current snapshot.
func (u *UI) Draw() {
    snap := u.session.Snapshot()
    s := u.screen
    s.Clear()
    drawText(s, 0, 0, styleText, "Reversi  (arrows move, enter plays, r restarts, q quits)")
    for c := 0; c < domain.Size; c++ {
        s.SetContent(originX+2*c, originY-1, rune('a'+c), nil, styleText)
    }
    rows := snap.Board.Rows()
    for r := 0; r < domain.Size; r++ {
        s.SetContent(0, originY+r, rune('1'+r), nil, styleText)
        for c := 0; c < domain.Size; c++ {
            st := styleBoard
            if rows[r][c] == domain.Light {
                st = styleLight
            }
            if u.cursor == (domain.Coord{Row: r, Col: c}) {
                st = styleCursor
            }
            x := originX + 2*c
            s.SetContent(x, originY+r, discRune(rows[r][c]), nil, st)
            s.SetContent(x+1, originY+r, ' ', nil, styleBoard)
        }
    }
    drawText(s, 0, originY+domain.Size+1, styleText, fmt.Sprintf("Dark %d  Light %d", snap.Dark, snap.Light))
    drawText(s, 0, originY+domain.Size+2, styleText, status(snap))
    s.Show()
}

func status(snap app.Snapshot) string {
    switch snap.State {
    case app.HumanTurn:
        return "Your move (dark)"
    case app.AutomatedTurn:
        return "Light is thinking..."
    }
    switch r := snap.Result; {
    case r.Status == domain.Draw:
        return "Draw! Press r to play again"
    case r.Winner == app.HumanPlayer:
        return "Dark wins! Press r to play again"
    default:
        return "Light wins! Press r to play again"
    }
}

func discRune(c domain.Cell) rune {
    switch c {
    case domain.Dark:
        return '●'
    case domain.Light:
        return '○'
    default:
        return '·'
    }
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
    for _, r := range text {
        s.SetContent(x, y, r, nil, st)
        x++
    }
}
