package app

import (
    "io"
    "log/slog"
    "sync"
    "time"

    "github.com/jaminalder/codex-reversi/internal/domain"
    "github.com/jaminalder/codex-reversi/internal/opponent"
)

// TurnState is the scheduler state of a session.
type TurnState uint8

const (
    HumanTurn TurnState = iota
    AutomatedTurn
    Finished
)

func (t TurnState) String() string {
    switch t {
    case HumanTurn:
        return "human"
    case AutomatedTurn:
        return "automated"
    case Finished:
        return "finished"
    default:
        return "unknown"
    }
}

// The human always plays dark and moves first.
const (
    HumanPlayer     = domain.Dark
    AutomatedPlayer = domain.Light
)

// DefaultInterval is the delay before the automated player moves.
const DefaultInterval = 700 * time.Millisecond

// SessionConfig configures a Session. Zero values fall back to defaults.
type SessionConfig struct {
    Interval time.Duration
    Strategy opponent.Strategy
    // EndWhenBlocked ends the game when neither side can move and lets the
    // automated player continue when only the human is stuck.
    EndWhenBlocked bool
    Logger         *slog.Logger
}

// Snapshot is an immutable view of a session handed to renderers.
type Snapshot struct {
    Board    domain.Board
    Result   domain.Result
    State    TurnState
    Dark     int
    Light    int
    Legal    []domain.Coord // human moves, only while State is HumanTurn
    LastMove *domain.Coord
    LastBy   domain.Cell
}

type stopper interface {
    Stop() bool
}

func realAfterFunc(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) }

// Session drives one game between the human and the automated player.
type Session struct {
    mu       sync.Mutex
    cfg      SessionConfig
    log      *slog.Logger
    board    domain.Board
    state    TurnState
    last     *domain.Coord
    lastBy   domain.Cell
    timer    stopper
    gen      uint64
    closed   bool
    listener func(Snapshot)

    afterFunc func(time.Duration, func()) stopper
}

// NewSession starts a game on the opening position with the human to move.
func NewSession(cfg SessionConfig) *Session {
    if cfg.Interval <= 0 {
        cfg.Interval = DefaultInterval
    }
    if cfg.Strategy == nil {
        cfg.Strategy = opponent.FirstLegal{}
    }
    logger := cfg.Logger
    if logger == nil {
        logger = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    return &Session{
        cfg:       cfg,
        log:       logger,
        board:     domain.NewBoard(),
        state:     HumanTurn,
        afterFunc: realAfterFunc,
    }
}

// SetListener registers fn to receive a snapshot after every state change.
// fn runs outside the session lock, possibly on the timer goroutine.
func (s *Session) SetListener(fn func(Snapshot)) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.listener = fn
}

// RequestMove plays a human move. Moves that are out of range, illegal, or
// made while it is not the human's turn are ignored; the return value reports
// whether the move was applied.
func (s *Session) RequestMove(row, col int) bool {
    s.mu.Lock()
    if s.closed || s.state != HumanTurn {
        s.mu.Unlock()
        return false
    }
    n, err := domain.ApplyMove(&s.board, row, col, HumanPlayer)
    if err != nil {
        s.mu.Unlock()
        s.log.Debug("human move ignored", "row", row, "col", col, "err", err)
        return false
    }
    s.last, s.lastBy = &domain.Coord{Row: row, Col: col}, HumanPlayer
    s.log.Debug("human move", "row", row, "col", col, "flipped", n)
    s.advanceLocked(AutomatedPlayer)
    snap, fn := s.snapshotLocked(), s.listener
    s.mu.Unlock()
    notify(fn, snap)
    return true
}

// Reset starts a new game in the same session.
func (s *Session) Reset() bool {
    s.mu.Lock()
    if s.closed {
        s.mu.Unlock()
        return false
    }
    s.stopTimerLocked()
    s.gen++
    s.board = domain.NewBoard()
    s.state = HumanTurn
    s.last, s.lastBy = nil, domain.Empty
    s.log.Info("game reset")
    snap, fn := s.snapshotLocked(), s.listener
    s.mu.Unlock()
    notify(fn, snap)
    return true
}

// Close cancels the pending automated move. Later requests are ignored.
func (s *Session) Close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return
    }
    s.closed = true
    s.stopTimerLocked()
    s.gen++
}

// CurrentBoard returns a copy of the board.
func (s *Session) CurrentBoard() domain.Board {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.board
}

// CurrentResult derives the result from the current board.
func (s *Session) CurrentResult() domain.Result {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.resultLocked()
}

// State returns the scheduler state.
func (s *Session) State() TurnState {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.state
}

// Snapshot returns a consistent view of board, result and turn.
func (s *Session) Snapshot() Snapshot {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.snapshotLocked()
}

// runAutomated is the timer callback. Ticks from an earlier game generation
// or outside AutomatedTurn do nothing.
func (s *Session) runAutomated(gen uint64) {
    s.mu.Lock()
    if s.closed || gen != s.gen || s.state != AutomatedTurn {
        s.mu.Unlock()
        return
    }
    s.timer = nil
    if m, ok := s.cfg.Strategy.ChooseMove(s.board, AutomatedPlayer); ok {
        if n, err := domain.ApplyMove(&s.board, m.Row, m.Col, AutomatedPlayer); err != nil {
            s.log.Error("automated move rejected", "strategy", s.cfg.Strategy.Name(), "move", m.String(), "err", err)
        } else {
            s.last, s.lastBy = &m, AutomatedPlayer
            s.log.Debug("automated move", "row", m.Row, "col", m.Col, "flipped", n)
        }
    } else {
        s.log.Debug("automated player passes")
    }
    s.advanceLocked(HumanPlayer)
    snap, fn := s.snapshotLocked(), s.listener
    s.mu.Unlock()
    notify(fn, snap)
}

func (s *Session) advanceLocked(next domain.Cell) {
    if s.resultLocked().Over() {
        s.state = Finished
        s.stopTimerLocked()
        s.log.Info("game finished", "result", s.resultLocked().String(),
            "dark", s.board.CountDiscs(domain.Dark), "light", s.board.CountDiscs(domain.Light))
        return
    }
    // The human passes only when blocked; the automated side always gets its
    // tick and passes there.
    if next == HumanPlayer && s.cfg.EndWhenBlocked && !domain.HasLegalMove(s.board, HumanPlayer) {
        s.log.Debug("human player has no move, passing")
        next = AutomatedPlayer
    }
    if next == AutomatedPlayer {
        s.state = AutomatedTurn
        s.armLocked()
        return
    }
    s.state = HumanTurn
}

func (s *Session) resultLocked() domain.Result {
    r := domain.Evaluate(s.board)
    if r.Over() || !s.cfg.EndWhenBlocked {
        return r
    }
    if !domain.HasLegalMove(s.board, domain.Dark) && !domain.HasLegalMove(s.board, domain.Light) {
        return domain.Score(s.board)
    }
    return r
}

func (s *Session) armLocked() {
    s.stopTimerLocked()
    gen := s.gen
    s.timer = s.afterFunc(s.cfg.Interval, func() { s.runAutomated(gen) })
}

func (s *Session) stopTimerLocked() {
    if s.timer != nil {
        s.timer.Stop()
        s.timer = nil
    }
}

func (s *Session) snapshotLocked() Snapshot {
    snap := Snapshot{
        Board:  s.board,
        Result: s.resultLocked(),
        State:  s.state,
        Dark:   s.board.CountDiscs(domain.Dark),
        Light:  s.board.CountDiscs(domain.Light),
        LastBy: s.lastBy,
    }
    if s.last != nil {
        m := *s.last
        snap.LastMove = &m
    }
    if s.state == HumanTurn && !s.closed {
        snap.Legal = domain.LegalMoves(s.board, HumanPlayer)
    }
    return snap
}

func notify(fn func(Snapshot), snap Snapshot) {
    if fn != nil {
        fn(snap)
    }
}
