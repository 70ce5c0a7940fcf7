package game

import (
	"strings"

	"github.com/OneOfOne/xxhash"
)

// Group is a maximal connected set of same-color stones. Stones holds flat
// cell indices; Liberties is the set of empty cells orthogonally adjacent to
// any stone of the group. Both are maintained by the owning Board after every
// placement and capture.
type Group struct {
	Color     Color
	Stones    []int
	Liberties map[int]struct{}
}

// Size returns the number of stones in the group.
func (g *Group) Size() int { return len(g.Stones) }

// LibertyCount returns the number of distinct liberties.
func (g *Group) LibertyCount() int { return len(g.Liberties) }

func (g *Group) clone() *Group {
	ng := &Group{
		Color:     g.Color,
		Stones:    make([]int, len(g.Stones)),
		Liberties: make(map[int]struct{}, len(g.Liberties)),
	}
	copy(ng.Stones, g.Stones)
	for l := range g.Liberties {
		ng.Liberties[l] = struct{}{}
	}
	return ng
}

// Board is a mutable N×N Go position with incremental group and liberty
// tracking. It carries no side-to-move or history; rules-level state (ko,
// move number) travels separately. Boards are not safe for concurrent
// mutation; searchers always work on a Copy.
type Board struct {
	size      int
	grid      []Color
	cellGroup []*Group
	hash      uint64
	hashOK    bool
}

// NewBoard returns an empty board of the given size.
func NewBoard(size int) *Board {
	if size < 2 {
		panic("game: board size must be at least 2")
	}
	return &Board{
		size:      size,
		grid:      make([]Color, size*size),
		cellGroup: make([]*Group, size*size),
	}
}

// Size returns the board dimension N.
func (b *Board) Size() int { return b.size }

// Index converts (x, y) to the flat cell index.
func (b *Board) Index(x, y int) int { return y*b.size + x }

// Coords converts a flat cell index back to (x, y).
func (b *Board) Coords(idx int) (int, int) { return idx % b.size, idx / b.size }

// InBounds reports whether (x, y) is on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

// IsEmpty reports whether the point is unoccupied.
func (b *Board) IsEmpty(x, y int) bool { return b.grid[b.Index(x, y)] == Empty }

// Stone returns the color at (x, y), Empty if unoccupied.
func (b *Board) Stone(x, y int) Color { return b.grid[b.Index(x, y)] }

// GroupAt returns the group occupying (x, y), or nil for an empty point.
func (b *Board) GroupAt(x, y int) *Group { return b.cellGroup[b.Index(x, y)] }

// Groups returns every group on the board, in stable first-stone order.
func (b *Board) Groups() []*Group {
	var groups []*Group
	seen := make(map[*Group]struct{})
	for _, g := range b.cellGroup {
		if g == nil {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	return groups
}

// neighbors returns the flat indices of the up-to-4 orthogonal neighbors.
func (b *Board) neighbors(idx int) []int {
	x, y := b.Coords(idx)
	n := make([]int, 0, 4)
	if x > 0 {
		n = append(n, idx-1)
	}
	if x < b.size-1 {
		n = append(n, idx+1)
	}
	if y > 0 {
		n = append(n, idx-b.size)
	}
	if y < b.size-1 {
		n = append(n, idx+b.size)
	}
	return n
}

// Place puts a stone unconditionally; the caller must have validated
// legality. Adjacent friendly groups are merged, the merged group's
// liberties recomputed, and the placed point removed from enemy liberties.
// Capture resolution is the rules layer's job (PlayMove).
func (b *Board) Place(x, y int, c Color) {
	idx := b.Index(x, y)
	if c == Empty {
		panic("game: cannot place an empty stone")
	}
	if b.grid[idx] != Empty {
		panic("game: point already occupied")
	}
	b.grid[idx] = c

	g := &Group{Color: c, Stones: []int{idx}, Liberties: make(map[int]struct{})}
	b.cellGroup[idx] = g

	for _, n := range b.neighbors(idx) {
		ng := b.cellGroup[n]
		if ng == nil || ng == g {
			continue
		}
		if ng.Color == c {
			for _, s := range ng.Stones {
				b.cellGroup[s] = g
			}
			g.Stones = append(g.Stones, ng.Stones...)
		} else {
			delete(ng.Liberties, idx)
		}
	}
	b.recomputeLiberties(g)
	b.hashOK = false
}

// removeGroup empties every cell of g and refreshes the liberties of all
// groups that bordered it. Returns the number of stones removed.
func (b *Board) removeGroup(g *Group) int {
	for _, s := range g.Stones {
		b.grid[s] = Empty
		b.cellGroup[s] = nil
	}
	affected := make(map[*Group]struct{})
	for _, s := range g.Stones {
		for _, n := range b.neighbors(s) {
			if ng := b.cellGroup[n]; ng != nil {
				affected[ng] = struct{}{}
			}
		}
	}
	for ng := range affected {
		b.recomputeLiberties(ng)
	}
	b.hashOK = false
	return len(g.Stones)
}

func (b *Board) recomputeLiberties(g *Group) {
	g.Liberties = make(map[int]struct{})
	for _, s := range g.Stones {
		for _, n := range b.neighbors(s) {
			if b.grid[n] == Empty {
				g.Liberties[n] = struct{}{}
			}
		}
	}
}

// Copy returns a fully independent deep copy of the board: grid, groups and
// liberty sets share no memory with the original.
func (b *Board) Copy() *Board {
	nb := &Board{
		size:      b.size,
		grid:      make([]Color, len(b.grid)),
		cellGroup: make([]*Group, len(b.cellGroup)),
		hash:      b.hash,
		hashOK:    b.hashOK,
	}
	copy(nb.grid, b.grid)
	clones := make(map[*Group]*Group)
	for i, g := range b.cellGroup {
		if g == nil {
			continue
		}
		cg, ok := clones[g]
		if !ok {
			cg = g.clone()
			clones[g] = cg
		}
		nb.cellGroup[i] = cg
	}
	return nb
}

// Hash returns a content-derived fingerprint of the grid, stable across
// boards holding identical positions. The value is cached and recomputed
// lazily after mutations.
func (b *Board) Hash() uint64 {
	if !b.hashOK {
		buf := make([]byte, len(b.grid))
		for i, c := range b.grid {
			buf[i] = byte(c)
		}
		b.hash = xxhash.Checksum64(buf)
		b.hashOK = true
	}
	return b.hash
}

// String renders the board with '.', 'X' (black) and 'O' (white), one row
// per line, row 0 first.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			switch b.grid[b.Index(x, y)] {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		if y < b.size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseBoard builds a board from rows of '.', 'X' and 'O'. All rows must be
// the same length as the row count. Handy for tests and the wire format.
func ParseBoard(rows []string) (*Board, error) {
	size := len(rows)
	if size < 2 {
		return nil, errBoardTooSmall
	}
	b := NewBoard(size)
	for y, row := range rows {
		if len(row) != size {
			return nil, &ParseError{Row: y, Reason: "row length does not match board size"}
		}
		for x := 0; x < size; x++ {
			switch row[x] {
			case '.':
			case 'X', 'x':
				b.Place(x, y, Black)
			case 'O', 'o':
				b.Place(x, y, White)
			default:
				return nil, &ParseError{Row: y, Reason: "unexpected character " + string(row[x])}
			}
		}
	}
	return b, nil
}
