package ai

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tenuki/engine/internal/game"
)

// plainSearch is an unpruned, untabled reference minimax used to pin down the
// alpha-beta searcher's root score.
func plainSearch(e *Evaluator, b *game.Board, depth int, toMove, me game.Color, ko int) float64 {
	if depth == 0 {
		return e.Evaluate(b, me).Total
	}
	moves := game.CandidateMoves(b, toMove, ko)
	if len(moves) == 0 {
		return e.Evaluate(b, me).Total
	}
	best := math.Inf(-1)
	if toMove != me {
		best = math.Inf(1)
	}
	for _, mv := range moves {
		child := b.Copy()
		_, cko := game.PlayMove(child, mv.X, mv.Y, toMove)
		score := plainSearch(e, child, depth-1, toMove.Opponent(), me, cko)
		if toMove == me {
			if score > best {
				best = score
			}
		} else if score < best {
			best = score
		}
	}
	return best
}

func TestAlphaBetaMatchesPlainMinimax(t *testing.T) {
	b := mustParse(t, []string{
		".X...",
		"XO...",
		"...O.",
		".....",
		"..X..",
	})
	cfg := MinimaxConfig{MaxDepth: 2, MaxBreadth: 1000, Budget: 30 * time.Second}
	s := NewMinimaxSelector(cfg, NewEvaluator(DefaultWeights()))

	mv := s.SelectMove(context.Background(), b, Request{Color: game.Black, Ko: game.NoKo})
	if mv == nil {
		t.Fatal("no move returned")
	}

	want := math.Inf(-1)
	ref := NewEvaluator(DefaultWeights())
	for _, c := range game.CandidateMoves(b, game.Black, game.NoKo) {
		child := b.Copy()
		_, ko := game.PlayMove(child, c.X, c.Y, game.Black)
		if score := plainSearch(ref, child, 1, game.White, game.Black, ko); score > want {
			want = score
		}
	}
	if got := s.LastScore(); got != want {
		t.Fatalf("alpha-beta root score %v, plain minimax %v", got, want)
	}
}

func TestMinimaxIsDeterministic(t *testing.T) {
	b := mustParse(t, []string{
		".X...",
		"XO...",
		"...O.",
		".....",
		"..X..",
	})
	cfg := MinimaxConfig{MaxDepth: 2, MaxBreadth: 8, Budget: 30 * time.Second}
	req := Request{Color: game.Black, Ko: game.NoKo}

	a := NewMinimaxSelector(cfg, NewEvaluator(DefaultWeights()))
	first := a.SelectMove(context.Background(), b, req)
	firstScore := a.LastScore()

	z := NewMinimaxSelector(cfg, NewEvaluator(DefaultWeights()))
	second := z.SelectMove(context.Background(), b, req)

	if first == nil || second == nil {
		t.Fatal("no move returned")
	}
	if *first != *second || firstScore != z.LastScore() {
		t.Fatalf("runs diverged: %v (%v) vs %v (%v)", first, firstScore, second, z.LastScore())
	}
}

func TestMinimaxPlaysTheCapture(t *testing.T) {
	// White (1,1) is in atari; (1,2) captures it.
	b := mustParse(t, []string{
		".X...",
		"XOX..",
		".....",
		".....",
		".....",
	})
	cfg := MinimaxConfig{MaxDepth: 1, MaxBreadth: 25, Budget: 30 * time.Second}
	s := NewMinimaxSelector(cfg, NewEvaluator(DefaultWeights()))
	mv := s.SelectMove(context.Background(), b, Request{Color: game.Black, Ko: game.NoKo})
	if mv == nil || mv.X != 1 || mv.Y != 2 {
		t.Fatalf("move = %v, want capture at (1,2)", mv)
	}
	if s.Nodes() == 0 {
		t.Fatal("node counter not advanced")
	}
}

func TestMinimaxNilWhenBudgetAlreadySpent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMinimaxSelector(DefaultMinimaxConfig(), NewEvaluator(DefaultWeights()))
	if mv := s.SelectMove(ctx, game.NewBoard(5), Request{Color: game.Black, Ko: game.NoKo}); mv != nil {
		t.Fatalf("expected nil on a dead context, got %v", mv)
	}
}

func TestMinimaxSingleCandidateShortcut(t *testing.T) {
	// White's only legal move is (1,1), capturing the black group.
	b := mustParse(t, []string{
		"XX",
		"X.",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMinimaxSelector(DefaultMinimaxConfig(), NewEvaluator(DefaultWeights()))
	mv := s.SelectMove(ctx, b, Request{Color: game.White, Ko: game.NoKo})
	if mv == nil || mv.X != 1 || mv.Y != 1 {
		t.Fatalf("move = %v, want the forced (1,1)", mv)
	}
}
