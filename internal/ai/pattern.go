package ai

import (
	"sync"

	"github.com/tenuki/engine/internal/game"
)

// 3x3 shape patterns describing good follow-up points, written relative to
// the evaluating color: 'X' own stone, 'O' opposing stone, '.' empty,
// ' ' off-board, '?' anything, 'x' not-own, 'o' not-opposing. The center is
// the candidate point and is always empty. Rotations and reflections are
// generated once at load; the table is immutable afterwards.
var basePatterns = [][3]string{
	{ // hane against a contact stone
		"XO?",
		"...",
		"?.?",
	},
	{ // enclosing hane
		"XOX",
		"...",
		"???",
	},
	{ // magari (turn) against a contact stone
		"XO?",
		"X..",
		"x.?",
	},
	{ // unprotected cut
		"XO?",
		"O.o",
		"?o?",
	},
	{ // wedge between two enemy stones
		"?X?",
		"O.O",
		"ooo",
	},
	{ // edge block
		"OX?",
		"X.O",
		"   ",
	},
}

const patternPointBonus = 5.0

// PatternSet is a compiled, immutable set of 3x3 shape patterns.
type PatternSet struct {
	compiled [][9]byte
}

var (
	defaultPatterns     *PatternSet
	defaultPatternsOnce sync.Once
)

// DefaultPatterns returns the process-wide compiled pattern table.
func DefaultPatterns() *PatternSet {
	defaultPatternsOnce.Do(func() {
		defaultPatterns = compilePatterns(basePatterns)
	})
	return defaultPatterns
}

func compilePatterns(src [][3]string) *PatternSet {
	seen := make(map[[9]byte]struct{})
	ps := &PatternSet{}
	for _, p := range src {
		var flat [9]byte
		for r := 0; r < 3; r++ {
			copy(flat[r*3:r*3+3], p[r])
		}
		for _, v := range symmetries(flat) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			ps.compiled = append(ps.compiled, v)
		}
	}
	return ps
}

// symmetries returns the 8 rotations/reflections of a 3x3 pattern.
func symmetries(p [9]byte) [][9]byte {
	rotate := func(p [9]byte) [9]byte {
		var r [9]byte
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				r[x*3+(2-y)] = p[y*3+x]
			}
		}
		return r
	}
	mirror := func(p [9]byte) [9]byte {
		var m [9]byte
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				m[y*3+(2-x)] = p[y*3+x]
			}
		}
		return m
	}
	out := make([][9]byte, 0, 8)
	cur := p
	for i := 0; i < 4; i++ {
		out = append(out, cur, mirror(cur))
		cur = rotate(cur)
	}
	return out
}

// Score is the pattern term hook: the number of empty points offering a
// matched shape for c, minus the opponent's, weighted by a fixed bonus. It
// measures how many good follow-ups each side has in the position.
func (ps *PatternSet) Score(b *game.Board, c game.Color) float64 {
	own, enemy := 0, 0
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			if b.Stone(x, y) != game.Empty {
				continue
			}
			if ps.matchesAt(b, x, y, c) {
				own++
			}
			if ps.matchesAt(b, x, y, c.Opponent()) {
				enemy++
			}
		}
	}
	return patternPointBonus * float64(own-enemy)
}

func (ps *PatternSet) matchesAt(b *game.Board, x, y int, c game.Color) bool {
	var area [9]byte
	i := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			switch {
			case !b.InBounds(nx, ny):
				area[i] = ' '
			case b.Stone(nx, ny) == game.Empty:
				area[i] = '.'
			case b.Stone(nx, ny) == c:
				area[i] = 'X'
			default:
				area[i] = 'O'
			}
			i++
		}
	}
	for _, p := range ps.compiled {
		if matchPattern(p, area) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, area [9]byte) bool {
	for i := 0; i < 9; i++ {
		switch pattern[i] {
		case '?':
		case 'x':
			if area[i] == 'X' {
				return false
			}
		case 'o':
			if area[i] == 'O' {
				return false
			}
		default:
			if pattern[i] != area[i] {
				return false
			}
		}
	}
	return true
}
