package ai

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tenuki/engine/internal/game"
)

// Request carries the per-move context supplied by the caller: whose turn it
// is, the ko point forbidden this turn (game.NoKo for none) and the move
// number.
type Request struct {
	Color      game.Color
	Ko         int
	MoveNumber int
}

// MoveSelector chooses one move for a position within its configured
// computation budget. A nil return means no move: either the side has no
// legal moves (pass) or the budget expired before any candidate was scored.
// Selectors are stateful and single-threaded; one instance must not be used
// by more than one goroutine at a time.
type MoveSelector interface {
	Name() string
	SelectMove(ctx context.Context, b *game.Board, req Request) *game.Move
}

// Oracle is the external policy/value provider consumed by the guided
// searcher. Policy is a per-point distribution over the b.Size()² board
// points (masking and renormalization over legal moves is the caller's job);
// value is the position estimate in [-1, 1] from toMove's perspective.
type Oracle interface {
	Predict(b *game.Board, toMove game.Color) (policy []float32, value float32, err error)
}

// Options configures the selector factory.
type Options struct {
	Weights Weights
	Minimax MinimaxConfig
	MCTS    MCTSConfig
	Guided  GuidedConfig
	Oracle  Oracle // nil when no model is available
	Seed    int64
}

// DefaultOptions returns the factory defaults with no oracle.
func DefaultOptions() Options {
	return Options{
		Weights: DefaultWeights(),
		Minimax: DefaultMinimaxConfig(),
		MCTS:    DefaultMCTSConfig(),
		Guided:  DefaultGuidedConfig(),
	}
}

// ForDifficulty returns the appropriate selector for a difficulty level.
func ForDifficulty(difficulty string, opts Options) MoveSelector {
	switch difficulty {
	case "random":
		return NewRandomSelector(opts.Seed)
	case "pattern":
		return NewGreedySelector(NewPatternEvaluator(opts.Weights, DefaultPatterns().Score), "pattern")
	case "medium", "minimax":
		return NewMinimaxSelector(opts.Minimax, NewEvaluator(opts.Weights))
	case "hard", "mcts":
		cfg := opts.MCTS
		if cfg.Seed == 0 {
			cfg.Seed = opts.Seed
		}
		return NewMCTSSelector(cfg)
	case "impossible", "guided":
		return newGuidedOrFallback(opts)
	default:
		return NewGreedySelector(NewEvaluator(opts.Weights), "greedy")
	}
}

// newGuidedOrFallback builds the PUCT searcher when an oracle is available
// and degrades to plain MCTS otherwise, so the move request never fails just
// because a model could not be loaded.
func newGuidedOrFallback(opts Options) MoveSelector {
	if opts.Oracle == nil {
		log.Warn().Msg("ai: guided search requested without an oracle; falling back to mcts")
		cfg := opts.MCTS
		if cfg.Seed == 0 {
			cfg.Seed = opts.Seed
		}
		return NewMCTSSelector(cfg)
	}
	cfg := opts.Guided
	if cfg.Seed == 0 {
		cfg.Seed = opts.Seed
	}
	return NewGuidedMCTSSelector(cfg, opts.Oracle)
}
