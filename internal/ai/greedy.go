package ai

import (
	"context"

	"github.com/tenuki/engine/internal/game"
)

// GreedySelector plays the candidate whose resulting position evaluates
// best, with no lookahead. The pattern-composite difficulty is the same
// selector over a pattern-aware evaluator.
type GreedySelector struct {
	eval *Evaluator
	name string
}

// NewGreedySelector wraps an evaluator as a one-ply selector.
func NewGreedySelector(eval *Evaluator, name string) *GreedySelector {
	return &GreedySelector{eval: eval, name: name}
}

func (s *GreedySelector) Name() string { return s.name }

// Evaluator exposes the underlying evaluator for analysis callers.
func (s *GreedySelector) Evaluator() *Evaluator { return s.eval }

func (s *GreedySelector) SelectMove(_ context.Context, b *game.Board, req Request) *game.Move {
	ranked := s.eval.RankMoves(b, req.Color, req.Ko)
	if len(ranked) == 0 {
		return nil
	}
	mv := ranked[0].Move
	return &mv
}
