package game

import "fmt"

// Color is the occupancy of a board point.
type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Opponent returns the other player's color. Calling it on Empty is a
// programming error.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	panic("game: Empty has no opponent")
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Move is a stone placement at (X, Y) by Color. A pass is represented by
// negative coordinates; use Pass and IsPass rather than testing fields.
type Move struct {
	X, Y  int
	Color Color
}

// Pass returns the pass sentinel for the given color.
func Pass(c Color) Move {
	return Move{X: -1, Y: -1, Color: c}
}

// IsPass reports whether the move is the pass sentinel.
func (m Move) IsPass() bool {
	return m.X < 0 || m.Y < 0
}

func (m Move) String() string {
	if m.IsPass() {
		return m.Color.String() + " pass"
	}
	return fmt.Sprintf("%s (%d,%d)", m.Color, m.X, m.Y)
}
