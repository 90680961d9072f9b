package domain

import (
    "errors"
    "fmt"
    "strings"
)

// Size is the number of rows and columns of the board.
const Size = 8

// Cell represents a board cell state. Dark and Light double as player values.
type Cell uint8

const (
    Empty Cell = iota
    Dark
    Light
)

func (c Cell) String() string {
    switch c {
    case Empty:
        return "empty"
    case Dark:
        return "dark"
    case Light:
        return "light"
    default:
        return fmt.Sprintf("cell(%d)", uint8(c))
    }
}

// IsPlayer reports whether c is one of the two disc colours.
func (c Cell) IsPlayer() bool { return c == Dark || c == Light }

// Opponent returns the other disc colour, or Empty for a non-player value.
func (c Cell) Opponent() Cell {
    switch c {
    case Dark:
        return Light
    case Light:
        return Dark
    default:
        return Empty
    }
}

// Coord is a zero-based board position.
type Coord struct {
    Row int
    Col int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Errors returned by domain operations.
var (
    ErrOutOfRange  = errors.New("coordinate out of range")
    ErrInvalidCell = errors.New("invalid cell state")
    ErrIllegalMove = errors.New("illegal move")
)

// Board is a fixed 8x8 grid. It is a value type: a copy is a snapshot.
type Board struct {
    cells [Size][Size]Cell
}

// NewBoard returns the standard opening position.
func NewBoard() Board {
    var b Board
    mid := Size / 2
    b.cells[mid-1][mid-1], b.cells[mid][mid] = Light, Light
    b.cells[mid-1][mid], b.cells[mid][mid-1] = Dark, Dark
    return b
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
    return row >= 0 && row < Size && col >= 0 && col < Size
}

// Get returns the state of the cell at (row, col).
func (b Board) Get(row, col int) (Cell, error) {
    if !InBounds(row, col) {
        return Empty, ErrOutOfRange
    }
    return b.cells[row][col], nil
}

// Set places or flips a disc. A cell can never go back to Empty.
func (b *Board) Set(row, col int, c Cell) error {
    if !InBounds(row, col) {
        return ErrOutOfRange
    }
    if !c.IsPlayer() {
        return ErrInvalidCell
    }
    b.cells[row][col] = c
    return nil
}

// CountDiscs returns the number of discs of the given colour.
func (b Board) CountDiscs(player Cell) int {
    n := 0
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            if b.cells[r][c] == player {
                n++
            }
        }
    }
    return n
}

// IsFull reports whether no cell is Empty.
func (b Board) IsFull() bool {
    return b.CountDiscs(Empty) == 0
}

// Rows returns a copy of the grid for renderers.
func (b Board) Rows() [Size][Size]Cell {
    return b.cells
}

// String renders the board one row per line using '.', 'X' (dark) and 'O' (light).
func (b Board) String() string {
    var sb strings.Builder
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            sb.WriteByte(cellRune(b.cells[r][c]))
        }
        if r < Size-1 {
            sb.WriteByte('\n')
        }
    }
    return sb.String()
}

func cellRune(c Cell) byte {
    switch c {
    case Dark:
        return 'X'
    case Light:
        return 'O'
    default:
        return '.'
    }
}

// ParseBoard builds a board from eight rows of eight characters in the
// notation produced by String.
func ParseBoard(rows ...string) (Board, error) {
    var b Board
    if len(rows) != Size {
        return b, fmt.Errorf("parse board: want %d rows, got %d", Size, len(rows))
    }
    for r, line := range rows {
        if len(line) != Size {
            return b, fmt.Errorf("parse board: row %d has %d columns", r, len(line))
        }
        for c := 0; c < Size; c++ {
            switch line[c] {
            case '.':
                b.cells[r][c] = Empty
            case 'X':
                b.cells[r][c] = Dark
            case 'O':
                b.cells[r][c] = Light
            default:
                return b, fmt.Errorf("parse board: row %d col %d: %w", r, c, ErrInvalidCell)
            }
        }
    }
    return b, nil
}
