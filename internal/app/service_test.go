package app

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/jaminalder/codex-reversi/internal/domain"
)

// long interval so the automated player never moves on its own in these tests
func testConfig() SessionConfig { return SessionConfig{Interval: time.Hour} }

func TestCreateAndGet(t *testing.T) {
    s := NewService(testConfig())
    defer s.Shutdown()
    gs, err := s.CreateGame("p1")
    if err != nil {
        t.Fatalf("CreateGame error: %v", err)
    }
    if gs.ID == "" {
        t.Fatalf("expected non-empty game ID")
    }
    if gs.Owner != "p1" {
        t.Fatalf("expected owner p1, got %q", gs.Owner)
    }
    if gs.Snapshot.State != HumanTurn {
        t.Fatalf("expected human to move first, got %v", gs.Snapshot.State)
    }
    if gs.Created.IsZero() || gs.Updated.IsZero() {
        t.Fatalf("expected timestamps to be set")
    }
    got, ok := s.Get(gs.ID)
    if !ok || got.ID != gs.ID {
        t.Fatalf("Get should find created game")
    }
    if _, ok := s.Get("missing"); ok {
        t.Fatalf("Get should not find unknown game")
    }
}

func TestRequestMoveEnforcesOwner(t *testing.T) {
    s := NewService(testConfig())
    defer s.Shutdown()
    gs, _ := s.CreateGame("p1")

    if _, err := s.RequestMove(gs.ID, "p2", 2, 3); !errors.Is(err, ErrNotOwner) {
        t.Fatalf("expected ErrNotOwner, got %v", err)
    }
    if _, err := s.RequestMove("missing", "p1", 2, 3); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
    st, err := s.RequestMove(gs.ID, "p1", 2, 3)
    if err != nil {
        t.Fatalf("owner move failed: %v", err)
    }
    if c, _ := st.Snapshot.Board.Get(2, 3); c != domain.Dark || st.Snapshot.State != AutomatedTurn {
        t.Fatalf("unexpected state after move: state=%v cell=%v", st.Snapshot.State, c)
    }
    // not the human's turn any more
    st, err = s.RequestMove(gs.ID, "p1", 2, 2)
    if !errors.Is(err, ErrMoveRejected) {
        t.Fatalf("expected ErrMoveRejected, got %v", err)
    }
    if st == nil || st.Snapshot.Dark != 4 {
        t.Fatalf("rejected move should return unchanged state, got %+v", st)
    }
}

func TestResetAndClose(t *testing.T) {
    s := NewService(testConfig())
    gs, _ := s.CreateGame("p1")
    if _, err := s.RequestMove(gs.ID, "p1", 2, 3); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if _, err := s.Reset(gs.ID, "p2"); !errors.Is(err, ErrNotOwner) {
        t.Fatalf("expected ErrNotOwner on reset, got %v", err)
    }
    st, err := s.Reset(gs.ID, "p1")
    if err != nil {
        t.Fatalf("reset failed: %v", err)
    }
    if st.Snapshot.Board != domain.NewBoard() || st.Snapshot.State != HumanTurn {
        t.Fatalf("reset should restore the opening position")
    }
    if err := s.Close(gs.ID); err != nil {
        t.Fatalf("close failed: %v", err)
    }
    if _, ok := s.Get(gs.ID); ok {
        t.Fatalf("closed game should be gone")
    }
    if err := s.Close(gs.ID); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound on second close, got %v", err)
    }
}

func TestSubscribeAndBroadcast(t *testing.T) {
    s := NewService(SessionConfig{Interval: 5 * time.Millisecond})
    defer s.Shutdown()
    gs, _ := s.CreateGame("p1")

    ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
    defer cancel()
    ch, unsub, err := s.Subscribe(ctx, gs.ID)
    if err != nil {
        t.Fatalf("subscribe failed: %v", err)
    }
    defer unsub()

    if _, err := s.RequestMove(gs.ID, "p1", 2, 3); err != nil {
        t.Fatalf("play failed: %v", err)
    }

    // human move, then the automated reply from the timer goroutine
    want := []domain.Cell{domain.Dark, domain.Light}
    for i, by := range want {
        select {
        case st, ok := <-ch:
            if !ok {
                t.Fatalf("channel closed unexpectedly")
            }
            if st.Snapshot.LastBy != by {
                t.Fatalf("update %d: expected move by %v, got %v", i, by, st.Snapshot.LastBy)
            }
        case <-ctx.Done():
            t.Fatalf("timed out waiting for broadcast %d", i)
        }
    }
}

func TestSubscribeUnknownGame(t *testing.T) {
    s := NewService(testConfig())
    if _, _, err := s.Subscribe(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestDropSlowSubscriber(t *testing.T) {
    s := NewService(testConfig())
    defer s.Shutdown()
    gs, _ := s.CreateGame("p1")

    // Slow subscriber: never read
    ctxSlow, cancelSlow := context.WithCancel(context.Background())
    defer cancelSlow()
    slowCh, _, _ := s.Subscribe(ctxSlow, gs.ID)

    // more updates than the subscriber buffer holds
    for i := 0; i < 6; i++ {
        if _, err := s.Reset(gs.ID, "p1"); err != nil {
            t.Fatalf("reset %d: %v", i, err)
        }
    }

    // drain what was buffered; the channel must then be closed
    timeout := time.After(2 * time.Second)
    for {
        select {
        case _, ok := <-slowCh:
            if !ok {
                return
            }
        case <-timeout:
            t.Fatalf("slow subscriber was not dropped")
        }
    }
}

func TestCloseClosesSubscribers(t *testing.T) {
    s := NewService(testConfig())
    gs, _ := s.CreateGame("p1")
    ch, _, err := s.Subscribe(context.Background(), gs.ID)
    if err != nil {
        t.Fatalf("subscribe failed: %v", err)
    }
    if err := s.Close(gs.ID); err != nil {
        t.Fatalf("close failed: %v", err)
    }
    select {
    case _, ok := <-ch:
        if ok {
            t.Fatalf("expected closed channel")
        }
    case <-time.After(time.Second):
        t.Fatalf("subscriber not closed")
    }
}
