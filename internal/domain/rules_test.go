package domain

import (
    "errors"
    "strings"
    "testing"
)

func TestDarkOpeningMoveFlipsOne(t *testing.T) {
    b := NewBoard()
    n, err := ApplyMove(&b, 2, 3, Dark)
    if err != nil {
        t.Fatalf("ApplyMove failed: %v", err)
    }
    if n != 1 {
        t.Fatalf("expected 1 flip, got %d", n)
    }
    if got, _ := b.Get(3, 3); got != Dark {
        t.Fatalf("expected (3,3) flipped to dark, got %v", got)
    }
    if got, _ := b.Get(2, 3); got != Dark {
        t.Fatalf("expected dark disc at (2,3), got %v", got)
    }
    if b.CountDiscs(Dark) != 4 || b.CountDiscs(Light) != 1 {
        t.Fatalf("expected 4/1, got %d/%d", b.CountDiscs(Dark), b.CountDiscs(Light))
    }
    if total := b.CountDiscs(Dark) + b.CountDiscs(Light); total != 5 {
        t.Fatalf("expected 5 discs, got %d", total)
    }
}

func TestOpeningLegalMoves(t *testing.T) {
    b := NewBoard()
    want := []Coord{{2, 3}, {3, 2}, {4, 5}, {5, 4}}
    got := LegalMoves(b, Dark)
    if len(got) != len(want) {
        t.Fatalf("expected %v, got %v", want, got)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("expected %v, got %v", want, got)
        }
    }
}

func TestCanPlaceFalseOnOccupiedCells(t *testing.T) {
    b := NewBoard()
    // play a few moves so occupied cells are not just the opening cross
    seq := []struct {
        r, c int
        p    Cell
    }{{2, 3, Dark}, {2, 2, Light}, {3, 2, Dark}, {2, 4, Light}}
    for _, m := range seq {
        if _, err := ApplyMove(&b, m.r, m.c, m.p); err != nil {
            t.Fatalf("move %v,%v by %v: %v", m.r, m.c, m.p, err)
        }
    }
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            if cell, _ := b.Get(r, c); cell == Empty {
                continue
            }
            if CanPlace(b, r, c, Dark) || CanPlace(b, r, c, Light) {
                t.Fatalf("CanPlace true on occupied cell (%d,%d)", r, c)
            }
        }
    }
}

func TestAdjacentOwnDiscFlipsNothing(t *testing.T) {
    b := mustParse(t,
        "........",
        "........",
        "........",
        "...X....",
        "........",
        "........",
        "........",
        "........",
    )
    if CanPlace(b, 3, 4, Dark) {
        t.Fatalf("placing next to own disc with no run must be illegal")
    }
}

func TestRunEndingAtEdgeOrEmptyIsDiscarded(t *testing.T) {
    b := mustParse(t,
        "OOX.....",
        "O.......",
        "........",
        "........",
        "........",
        "........",
        "........",
        "........",
    )
    // From (2,0) upward the run (1,0),(0,0) hits the edge: no flip.
    if CanPlace(b, 2, 0, Dark) {
        t.Fatalf("run closed by the edge must not count")
    }
    // From (0,3) leftward: (0,2) is dark immediately, nothing to flip.
    if CanPlace(b, 0, 3, Dark) {
        t.Fatalf("adjacent own disc must not count")
    }
    // Light closing the run at (0,3) flips (0,2).
    n, err := ApplyMove(&b, 0, 3, Light)
    if err != nil || n != 1 {
        t.Fatalf("expected light to flip one disc, n=%d err=%v", n, err)
    }
}

func TestMultipleDirectionsFlipTogether(t *testing.T) {
    b := mustParse(t,
        "X.X.X...",
        ".OOO....",
        "XO.OX...",
        ".OOO....",
        "X.X.X...",
        "........",
        "........",
        "........",
    )
    n, err := ApplyMove(&b, 2, 2, Dark)
    if err != nil {
        t.Fatalf("ApplyMove: %v", err)
    }
    if n != 8 {
        t.Fatalf("expected 8 flips, got %d\n%s", n, b)
    }
    if b.CountDiscs(Light) != 0 {
        t.Fatalf("expected every light disc flipped\n%s", b)
    }
}

func TestIllegalMoveLeavesBoardUnchanged(t *testing.T) {
    b := NewBoard()
    before := b
    cases := []struct {
        r, c int
        p    Cell
        want error
    }{
        {0, 0, Dark, ErrIllegalMove},
        {3, 3, Dark, ErrIllegalMove},  // occupied
        {2, 3, Light, ErrIllegalMove}, // wrong colour for this square
        {2, 3, Empty, ErrIllegalMove},
        {-1, 3, Dark, ErrOutOfRange},
        {3, 8, Dark, ErrOutOfRange},
    }
    for _, tc := range cases {
        n, err := ApplyMove(&b, tc.r, tc.c, tc.p)
        if !errors.Is(err, tc.want) {
            t.Fatalf("(%d,%d,%v): expected %v, got %v", tc.r, tc.c, tc.p, tc.want, err)
        }
        if n != 0 {
            t.Fatalf("expected 0 flips on error, got %d", n)
        }
        if b != before {
            t.Fatalf("board changed after rejected move:\n%s", b)
        }
    }
}

func TestPlayoutKeepsCountInvariants(t *testing.T) {
    b := NewBoard()
    player := Dark
    passes := 0
    for passes < 2 {
        moves := LegalMoves(b, player)
        if len(moves) == 0 {
            passes++
            player = player.Opponent()
            continue
        }
        passes = 0
        m := moves[len(moves)/2]
        mine, theirs := b.CountDiscs(player), b.CountDiscs(player.Opponent())
        n, err := ApplyMove(&b, m.Row, m.Col, player)
        if err != nil {
            t.Fatalf("legal move %v rejected: %v", m, err)
        }
        if n < 1 {
            t.Fatalf("legal move flipped %d discs", n)
        }
        if got := b.CountDiscs(player); got != mine+1+n {
            t.Fatalf("mover count %d, want %d", got, mine+1+n)
        }
        if got := b.CountDiscs(player.Opponent()); got != theirs-n {
            t.Fatalf("opponent count %d, want %d", got, theirs-n)
        }
        total := b.CountDiscs(Dark) + b.CountDiscs(Light)
        if total != mine+theirs+1 {
            t.Fatalf("total grew by %d, want 1", total-mine-theirs)
        }
        if r := Evaluate(b); (total < Size*Size) == r.Over() {
            t.Fatalf("evaluate %v inconsistent with %d discs", r, total)
        }
        player = player.Opponent()
    }
}

func TestEvaluate(t *testing.T) {
    x := strings.Repeat("X", Size)
    o := strings.Repeat("O", Size)
    cases := []struct {
        name string
        rows []string
        want Result
    }{
        {"dark 33 light 31", []string{x, x, x, x, "XOOOOOOO", o, o, o}, Result{Status: Win, Winner: Dark}},
        {"light majority", []string{x, x, o, o, o, o, o, o}, Result{Status: Win, Winner: Light}},
        {"32 all", []string{x, x, x, x, o, o, o, o}, Result{Status: Draw}},
        {"not full", []string{x, x, x, x, x, x, x, "XXXXXXX."}, Result{Status: InProgress}},
    }
    for _, tc := range cases {
        b := mustParse(t, tc.rows...)
        if got := Evaluate(b); got != tc.want {
            t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
        }
    }
    if got := Evaluate(NewBoard()); got.Over() {
        t.Fatalf("opening position reported %v", got)
    }
}

func TestScoreIgnoresEmptyCells(t *testing.T) {
    b := mustParse(t,
        "XO......",
        "........",
        "........",
        "........",
        "........",
        "........",
        "........",
        "........",
    )
    if got := Score(b); got.Status != Draw {
        t.Fatalf("expected draw on 1/1, got %v", got)
    }
    if HasLegalMove(b, Light) {
        t.Fatalf("light should have no move")
    }
    if !HasLegalMove(b, Dark) {
        t.Fatalf("dark should be able to play (0,2)")
    }
}
