package app

import (
    "context"
    "errors"
    "io"
    "log/slog"
    "sync"
    "time"

    "github.com/google/uuid"
)

// Errors exposed by the service layer.
var (
    ErrNotFound     = errors.New("game not found")
    ErrNotOwner     = errors.New("not the owner of this game")
    ErrMoveRejected = errors.New("move not accepted")
)

// GameState is the view of one game handed to callers and subscribers.
type GameState struct {
    ID       string
    Owner    string
    Snapshot Snapshot
    Created  time.Time
    Updated  time.Time
}

type game struct {
    id      string
    owner   string
    session *Session
    created time.Time
    updated time.Time
}

func (g *game) state(snap Snapshot) GameState {
    return GameState{ID: g.id, Owner: g.owner, Snapshot: snap, Created: g.created, Updated: g.updated}
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service keeps the sessions of all running games in memory.
type Service struct {
    mu    sync.Mutex
    games map[string]*game
    subs  map[string]map[*subscriber]struct{}
    cfg   SessionConfig
    log   *slog.Logger
}

// NewService creates a service whose sessions all use cfg.
func NewService(cfg SessionConfig) *Service {
    logger := cfg.Logger
    if logger == nil {
        logger = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    return &Service{
        games: make(map[string]*game),
        subs:  make(map[string]map[*subscriber]struct{}),
        cfg:   cfg,
        log:   logger,
    }
}

// CreateGame starts a new session owned by ownerID.
func (s *Service) CreateGame(ownerID string) (*GameState, error) {
    id := uuid.NewString()
    cfg := s.cfg
    cfg.Logger = s.log.With("game", id)
    sess := NewSession(cfg)
    now := time.Now()
    g := &game{id: id, owner: ownerID, session: sess, created: now, updated: now}
    sess.SetListener(func(snap Snapshot) { s.publish(id, snap) })

    s.mu.Lock()
    s.games[id] = g
    s.mu.Unlock()

    s.log.Info("game created", "game", id, "owner", ownerID)
    gs := g.state(sess.Snapshot())
    return &gs, nil
}

// Get returns the current state of a game if present.
func (s *Service) Get(id string) (*GameState, bool) {
    g, ok := s.lookup(id)
    if !ok {
        return nil, false
    }
    gs := s.stateOf(g)
    return &gs, true
}

// RequestMove forwards a human move. Only the owner may play. A move that the
// session ignores yields ErrMoveRejected together with the unchanged state.
func (s *Service) RequestMove(id, playerID string, row, col int) (*GameState, error) {
    g, ok := s.lookup(id)
    if !ok {
        return nil, ErrNotFound
    }
    if g.owner != playerID {
        gs := s.stateOf(g)
        return &gs, ErrNotOwner
    }
    applied := g.session.RequestMove(row, col)
    gs := s.stateOf(g)
    if !applied {
        return &gs, ErrMoveRejected
    }
    return &gs, nil
}

// Reset starts the game over ("play again").
func (s *Service) Reset(id, playerID string) (*GameState, error) {
    g, ok := s.lookup(id)
    if !ok {
        return nil, ErrNotFound
    }
    if g.owner != playerID {
        gs := s.stateOf(g)
        return &gs, ErrNotOwner
    }
    g.session.Reset()
    gs := s.stateOf(g)
    return &gs, nil
}

// Close ends a game: its timer is cancelled, subscribers are closed and the
// state is discarded.
func (s *Service) Close(id string) error {
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return ErrNotFound
    }
    delete(s.games, id)
    subs := s.subs[id]
    delete(s.subs, id)
    s.mu.Unlock()

    g.session.Close()
    for sub := range subs {
        sub.close()
    }
    s.log.Info("game closed", "game", id)
    return nil
}

// Shutdown closes every game.
func (s *Service) Shutdown() {
    s.mu.Lock()
    ids := make([]string, 0, len(s.games))
    for id := range s.games {
        ids = append(ids, id)
    }
    s.mu.Unlock()
    for _, id := range ids {
        _ = s.Close(id)
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 4)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

func (s *Service) lookup(id string) (*game, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    return g, ok
}

func (s *Service) stateOf(g *game) GameState {
    snap := g.session.Snapshot()
    s.mu.Lock()
    defer s.mu.Unlock()
    return g.state(snap)
}

// publish runs on every session change, from a request or the timer goroutine.
// Sends never block, so the fan-out happens under the lock; unsubscribe closes
// channels only after removing them here.
func (s *Service) publish(id string, snap Snapshot) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return
    }
    g.updated = time.Now()
    gs := g.state(snap)

    dropped := 0
    for sub := range s.copySubsLocked(id) {
        select {
        case sub.ch <- gs:
        default:
            // drop slow subscriber
            delete(s.subs[id], sub)
            sub.close()
            dropped++
        }
    }
    if dropped > 0 {
        s.log.Warn("dropped slow subscribers", "game", id, "count", dropped)
    }
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
