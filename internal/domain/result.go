package domain

// Status is the coarse outcome of a position.
type Status uint8

const (
    InProgress Status = iota
    Win
    Draw
)

func (s Status) String() string {
    switch s {
    case InProgress:
        return "in progress"
    case Win:
        return "win"
    case Draw:
        return "draw"
    default:
        return "unknown"
    }
}

// Result is derived from a board on demand and never stored.
type Result struct {
    Status Status
    Winner Cell // set only when Status is Win
}

// Over reports whether the result is final.
func (r Result) Over() bool { return r.Status != InProgress }

func (r Result) String() string {
    switch r.Status {
    case Win:
        return r.Winner.String() + " wins"
    case Draw:
        return "draw"
    default:
        return "in progress"
    }
}

// Evaluate returns InProgress until the board is full, then compares counts.
// Equal counts are a draw.
func Evaluate(b Board) Result {
    if !b.IsFull() {
        return Result{Status: InProgress}
    }
    return Score(b)
}

// Score compares disc counts regardless of whether the board is full.
func Score(b Board) Result {
    dark, light := b.CountDiscs(Dark), b.CountDiscs(Light)
    switch {
    case dark > light:
        return Result{Status: Win, Winner: Dark}
    case light > dark:
        return Result{Status: Win, Winner: Light}
    default:
        return Result{Status: Draw}
    }
}
