package ai

import (
	"context"
	"math/rand"

	"github.com/tenuki/engine/internal/game"
)

// RandomSelector plays a uniformly random legal move, skipping its own eyes.
// Baseline opponent and rollout sanity check.
type RandomSelector struct {
	rng *rand.Rand
}

// NewRandomSelector returns a random selector; seed 0 means non-deterministic.
func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: newRng(seed)}
}

func (s *RandomSelector) Name() string { return "random" }

func (s *RandomSelector) SelectMove(_ context.Context, b *game.Board, req Request) *game.Move {
	moves := game.CandidateMoves(b, req.Color, req.Ko)
	if len(moves) == 0 {
		return nil
	}
	mv := moves[s.rng.Intn(len(moves))]
	return &mv
}
