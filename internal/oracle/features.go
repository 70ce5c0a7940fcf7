package oracle

import "github.com/tenuki/engine/internal/game"

// Input plane layout, plane-major (C, H, W). Liberty planes describe the
// group occupying the point regardless of color.
const (
	PlaneOwn        = 0 // stones of the side to move
	PlaneOpponent   = 1
	PlaneLiberty1   = 2
	PlaneLiberty2   = 3
	PlaneLiberty3   = 4
	PlaneLiberty4Up = 5
	PlaneEmpty      = 6
	PlaneToMove     = 7 // all ones when black moves, all zeros when white

	NumPlanes = 8
)

// EncodePlanes flattens a position into the network's input layout:
// NumPlanes binary planes of size·size cells each, from toMove's perspective.
func EncodePlanes(b *game.Board, toMove game.Color) []float32 {
	size := b.Size()
	cells := size * size
	out := make([]float32, NumPlanes*cells)

	plane := func(p, idx int) *float32 { return &out[p*cells+idx] }

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			idx := b.Index(x, y)
			stone := b.Stone(x, y)
			if stone == game.Empty {
				*plane(PlaneEmpty, idx) = 1
				continue
			}
			if stone == toMove {
				*plane(PlaneOwn, idx) = 1
			} else {
				*plane(PlaneOpponent, idx) = 1
			}
			switch libs := b.GroupAt(x, y).LibertyCount(); {
			case libs == 1:
				*plane(PlaneLiberty1, idx) = 1
			case libs == 2:
				*plane(PlaneLiberty2, idx) = 1
			case libs == 3:
				*plane(PlaneLiberty3, idx) = 1
			default:
				*plane(PlaneLiberty4Up, idx) = 1
			}
		}
	}

	if toMove == game.Black {
		for idx := 0; idx < cells; idx++ {
			*plane(PlaneToMove, idx) = 1
		}
	}
	return out
}
