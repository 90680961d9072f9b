package domain

var directions = [8][2]int{
    {-1, 0}, {1, 0}, {0, -1}, {0, 1},
    {-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Flips returns the opponent discs that a disc of player placed at (row, col)
// would turn over. It returns nil if the move is not legal. The board is not
// modified.
func Flips(b Board, row, col int, player Cell) []Coord {
    if !InBounds(row, col) || !player.IsPlayer() || b.cells[row][col] != Empty {
        return nil
    }
    opp := player.Opponent()
    var out []Coord
    for _, d := range directions {
        var run []Coord
        r, c := row+d[0], col+d[1]
        for InBounds(r, c) && b.cells[r][c] == opp {
            run = append(run, Coord{Row: r, Col: c})
            r += d[0]
            c += d[1]
        }
        // A run only counts when it is closed by one of player's own discs.
        if len(run) > 0 && InBounds(r, c) && b.cells[r][c] == player {
            out = append(out, run...)
        }
    }
    return out
}

// CanPlace reports whether player may place a disc at (row, col).
func CanPlace(b Board, row, col int, player Cell) bool {
    return len(Flips(b, row, col, player)) > 0
}

// ApplyMove validates and plays a move, returning the number of flipped discs.
// On error the board is left untouched.
func ApplyMove(b *Board, row, col int, player Cell) (int, error) {
    if !InBounds(row, col) {
        return 0, ErrOutOfRange
    }
    flips := Flips(*b, row, col, player)
    if len(flips) == 0 {
        return 0, ErrIllegalMove
    }
    for _, f := range flips {
        b.cells[f.Row][f.Col] = player
    }
    b.cells[row][col] = player
    return len(flips), nil
}

// LegalMoves lists every legal move for player in row-major order.
func LegalMoves(b Board, player Cell) []Coord {
    var out []Coord
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            if CanPlace(b, r, c, player) {
                out = append(out, Coord{Row: r, Col: c})
            }
        }
    }
    return out
}

// HasLegalMove reports whether player has at least one legal move.
func HasLegalMove(b Board, player Cell) bool {
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            if CanPlace(b, r, c, player) {
                return true
            }
        }
    }
    return false
}
