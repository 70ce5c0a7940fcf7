package game

import (
	"errors"
	"fmt"
)

// NoKo is the ko-point value meaning no point is forbidden this turn.
const NoKo = -1

// MoveStatus classifies the outcome of a legality check.
type MoveStatus uint8

const (
	Legal MoveStatus = iota
	Occupied
	Suicide
	KoViolation
)

func (s MoveStatus) String() string {
	switch s {
	case Legal:
		return "legal"
	case Occupied:
		return "occupied"
	case Suicide:
		return "suicide"
	case KoViolation:
		return "ko violation"
	}
	return fmt.Sprintf("move status %d", uint8(s))
}

// IllegalMoveError is the typed rejection surfaced at the rules boundary.
// It is never produced inside search, which only works from legal-move sets.
type IllegalMoveError struct {
	Move   Move
	Status MoveStatus
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Status)
}

var errBoardTooSmall = errors.New("game: board must have at least 2 rows")

// ParseError reports a malformed textual board.
type ParseError struct {
	Row    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("game: bad board row %d: %s", e.Row, e.Reason)
}

// IsLegalMove checks whether c may play at (x, y) given the current ko point
// (flat index, NoKo for none). Captures are resolved on a scratch copy before
// the placed group's own liberties are examined, so a move that captures is
// never a suicide. The board is not mutated.
func IsLegalMove(b *Board, x, y int, c Color, ko int) MoveStatus {
	idx := b.Index(x, y)
	if b.grid[idx] != Empty {
		return Occupied
	}
	if idx == ko {
		return KoViolation
	}
	// Fast path: an empty orthogonal neighbor guarantees at least one liberty.
	for _, n := range b.neighbors(idx) {
		if b.grid[n] == Empty {
			return Legal
		}
	}
	scratch := b.Copy()
	captured, _ := PlayMove(scratch, x, y, c)
	if captured == 0 && scratch.GroupAt(x, y).LibertyCount() == 0 {
		return Suicide
	}
	return Legal
}

// PlayMove places a stone and resolves captures: every opposing neighbor
// group left with zero liberties is removed before the placed group's
// liberties settle. The caller must have validated legality. Returns the
// number of stones captured and the new ko point (NoKo if the move does not
// create a single-point ko).
func PlayMove(b *Board, x, y int, c Color) (captured int, ko int) {
	idx := b.Index(x, y)
	b.Place(x, y, c)
	g := b.cellGroup[idx]

	singleCapture := NoKo
	for _, n := range b.neighbors(idx) {
		ng := b.cellGroup[n]
		if ng == nil || ng.Color == c {
			continue
		}
		if ng.LibertyCount() == 0 {
			if ng.Size() == 1 {
				singleCapture = ng.Stones[0]
			}
			captured += b.removeGroup(ng)
		}
	}

	// A lone stone that captured exactly one stone and has only the captured
	// point as a liberty recreates the prior position if recaptured: ko.
	ko = NoKo
	if captured == 1 && g.Size() == 1 && g.LibertyCount() == 1 {
		ko = singleCapture
	}
	return captured, ko
}

// IsEye reports whether (x, y) is a friendly one-point eye for c: all four
// orthogonal neighbors friendly or off-board, and at least three of the four
// diagonal positions friendly, empty, or off-board. This is a heuristic
// filter for self-destructive fills, not a rules concept.
func IsEye(b *Board, x, y int, c Color) bool {
	if b.grid[b.Index(x, y)] != Empty {
		return false
	}
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if !b.InBounds(nx, ny) {
			continue
		}
		if b.Stone(nx, ny) != c {
			return false
		}
	}
	ok := 0
	for _, d := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		nx, ny := x+d[0], y+d[1]
		if !b.InBounds(nx, ny) || b.Stone(nx, ny) != c.Opponent() {
			ok++
		}
	}
	return ok >= 3
}

// LegalMoves returns every legal move for c in row-major point order.
func LegalMoves(b *Board, c Color, ko int) []Move {
	var moves []Move
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.grid[b.Index(x, y)] != Empty {
				continue
			}
			if IsLegalMove(b, x, y, c, ko) == Legal {
				moves = append(moves, Move{X: x, Y: y, Color: c})
			}
		}
	}
	return moves
}

// CandidateMoves returns the legal moves for c with friendly-eye fills
// pruned, unless pruning would leave no candidate at all. It never makes a
// movable position unmovable.
func CandidateMoves(b *Board, c Color, ko int) []Move {
	legal := LegalMoves(b, c, ko)
	candidates := legal[:0:0]
	for _, m := range legal {
		if IsEye(b, m.X, m.Y, c) {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return legal
	}
	return candidates
}

// StoneScore is the rollout terminal score from black's perspective: black
// stone count minus white stone count minus komi.
func StoneScore(b *Board, komi float64) float64 {
	diff := 0
	for _, c := range b.grid {
		switch c {
		case Black:
			diff++
		case White:
			diff--
		}
	}
	return float64(diff) - komi
}

// Territory counts the empty area enclosed by each color alone: empty
// regions (flood fill) whose border stones are all one color count toward
// that color; regions touching both colors, or nothing, count toward neither.
func Territory(b *Board) (black, white int) {
	visited := make([]bool, len(b.grid))
	for start := range b.grid {
		if b.grid[start] != Empty || visited[start] {
			continue
		}
		area := 0
		touchBlack, touchWhite := false, false
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			for _, n := range b.neighbors(cur) {
				switch b.grid[n] {
				case Empty:
					if !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				case Black:
					touchBlack = true
				case White:
					touchWhite = true
				}
			}
		}
		if touchBlack && !touchWhite {
			black += area
		} else if touchWhite && !touchBlack {
			white += area
		}
	}
	return black, white
}

// AreaScore is the simple area score from black's perspective: stones plus
// single-color-enclosed territory, minus komi.
func AreaScore(b *Board, komi float64) float64 {
	tb, tw := Territory(b)
	return StoneScore(b, 0) + float64(tb) - float64(tw) - komi
}
