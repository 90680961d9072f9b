// Package opponent chooses moves for the automated player.
package opponent

import (
    "errors"
    "fmt"
    "sort"
    "strings"

    "github.com/jaminalder/codex-reversi/internal/domain"
)

// ErrUnknownStrategy is returned by ByName for an unregistered name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy picks a move for player. ok is false when player must pass.
type Strategy interface {
    ChooseMove(b domain.Board, player domain.Cell) (move domain.Coord, ok bool)
    // Name returns the identifier used in configuration and logs.
    Name() string
}

// FirstLegal plays the first legal cell in row-major order. It is deliberately
// weak and fully deterministic.
type FirstLegal struct{}

func (FirstLegal) Name() string { return "first-legal" }

func (FirstLegal) ChooseMove(b domain.Board, player domain.Cell) (domain.Coord, bool) {
    for r := 0; r < domain.Size; r++ {
        for c := 0; c < domain.Size; c++ {
            if domain.CanPlace(b, r, c, player) {
                return domain.Coord{Row: r, Col: c}, true
            }
        }
    }
    return domain.Coord{}, false
}

// Greedy plays the move that flips the most discs; ties go to the first in
// row-major order. No lookahead.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) ChooseMove(b domain.Board, player domain.Cell) (domain.Coord, bool) {
    best, bestN := domain.Coord{}, 0
    for _, m := range domain.LegalMoves(b, player) {
        if n := len(domain.Flips(b, m.Row, m.Col, player)); n > bestN {
            best, bestN = m, n
        }
    }
    return best, bestN > 0
}

var registry = map[string]Strategy{
    FirstLegal{}.Name(): FirstLegal{},
    Greedy{}.Name():     Greedy{},
}

// ByName looks up a strategy by its configuration name.
func ByName(name string) (Strategy, error) {
    s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
    if !ok {
        return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
    }
    return s, nil
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
    out := make([]string, 0, len(registry))
    for n := range registry {
        out = append(out, n)
    }
    sort.Strings(out)
    return out
}
