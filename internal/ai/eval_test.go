package ai

import (
	"testing"

	"github.com/tenuki/engine/internal/game"
)

func mustParse(t *testing.T, rows []string) *game.Board {
	t.Helper()
	b, err := game.ParseBoard(rows)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return b
}

func TestEvaluateIsDeterministicAndCached(t *testing.T) {
	b := mustParse(t, []string{
		".X...",
		"XO...",
		".X...",
		".....",
		".....",
	})
	e := NewEvaluator(DefaultWeights())

	first := e.Evaluate(b, game.Black)
	second := e.Evaluate(b, game.Black)
	if first != second {
		t.Fatalf("repeated evaluation differs: %+v vs %+v", first, second)
	}
	if first.WinProbability <= 0 || first.WinProbability >= 1 {
		t.Fatalf("win probability out of (0,1): %v", first.WinProbability)
	}
}

func TestEvaluateDoesNotMutateBoard(t *testing.T) {
	b := mustParse(t, []string{
		".X...",
		"XO...",
		".X...",
		".....",
		".....",
	})
	before := b.String()
	e := NewEvaluator(DefaultWeights())
	e.Evaluate(b, game.Black)
	e.RankMoves(b, game.White, game.NoKo)
	if b.String() != before {
		t.Fatalf("evaluation mutated the board:\n%s", b.String())
	}
}

func TestEvaluateUnaffectedByCopyMutation(t *testing.T) {
	b := mustParse(t, []string{
		".X...",
		"X....",
		".....",
		".....",
		".....",
	})
	e := NewEvaluator(DefaultWeights())
	want := e.Evaluate(b, game.Black)

	c := b.Copy()
	game.PlayMove(c, 3, 3, game.White)

	if got := e.Evaluate(b, game.Black); got != want {
		t.Fatalf("mutating a copy changed the original's evaluation: %+v vs %+v", got, want)
	}
}

// A stone on the star point radiates a full influence field; a first-line
// stone loses most of it to border truncation.
func TestCenterStoneOutscoresEdgeStone(t *testing.T) {
	e := NewEvaluator(DefaultWeights())

	center := game.NewBoard(9)
	game.PlayMove(center, 4, 4, game.Black)

	edge := game.NewBoard(9)
	game.PlayMove(edge, 0, 4, game.Black)

	cs := e.Evaluate(center, game.Black)
	es := e.Evaluate(edge, game.Black)
	if cs.Influence <= es.Influence {
		t.Fatalf("center influence %v not greater than edge influence %v", cs.Influence, es.Influence)
	}
	if cs.Total <= es.Total {
		t.Fatalf("center total %v not greater than edge total %v", cs.Total, es.Total)
	}
}

func TestCaptureAndSafetyTermsSeeAtari(t *testing.T) {
	// White (1,1) has one liberty at (1,2).
	b := mustParse(t, []string{
		".X...",
		"XOX..",
		".....",
		".....",
		".....",
	})
	w := DefaultWeights()
	e := NewEvaluator(w)

	black := e.Evaluate(b, game.Black)
	if black.Capture != w.AtariBonus {
		t.Fatalf("black capture term = %v, want %v", black.Capture, w.AtariBonus)
	}

	white := e.Evaluate(b, game.White)
	if white.Safety != -w.SafetyAtariPenalty {
		t.Fatalf("white safety term = %v, want %v", white.Safety, -w.SafetyAtariPenalty)
	}
}

func TestRankMovesPrefersCapture(t *testing.T) {
	// White (1,1) is in atari; (1,2) captures it.
	b := mustParse(t, []string{
		".X...",
		"XOX..",
		".....",
		".....",
		".....",
	})
	e := NewEvaluator(DefaultWeights())
	ranked := e.RankMoves(b, game.Black, game.NoKo)
	if len(ranked) == 0 {
		t.Fatal("no ranked moves")
	}
	best := ranked[0].Move
	if best.X != 1 || best.Y != 2 {
		t.Fatalf("best move = %v, want capture at (1,2)", best)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not descending at %d: %v > %v", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
}

func TestPatternEvaluatorAddsPatternTerm(t *testing.T) {
	b := game.NewBoard(5)
	w := DefaultWeights()

	base := NewEvaluator(w).Evaluate(b, game.Black)
	if base.Pattern != 0 {
		t.Fatalf("base evaluator pattern term = %v, want 0", base.Pattern)
	}

	pat := NewPatternEvaluator(w, func(*game.Board, game.Color) float64 { return 42 }).Evaluate(b, game.Black)
	if pat.Pattern != 42 {
		t.Fatalf("pattern term = %v, want 42", pat.Pattern)
	}
	if want := base.Total + 42*w.Pattern; pat.Total != want {
		t.Fatalf("total = %v, want %v", pat.Total, want)
	}
}
