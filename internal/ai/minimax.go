package ai

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/tenuki/engine/internal/game"
)

// MinimaxConfig bounds the alpha-beta search.
type MinimaxConfig struct {
	MaxDepth   int           // iterative deepening ceiling
	MaxBreadth int           // candidate cap per node after ordering
	Budget     time.Duration // wall clock per SelectMove call
}

// DefaultMinimaxConfig returns the reference search bounds.
func DefaultMinimaxConfig() MinimaxConfig {
	return MinimaxConfig{MaxDepth: 3, MaxBreadth: 12, Budget: 2 * time.Second}
}

type ttEntry struct {
	depth int
	score float64
}

type killerMove struct {
	move  game.Move
	score float64
}

// killer bonus dwarfs the positional ordering terms so refutations from
// sibling subtrees are tried first.
const killerOrderBonus = 1000

// sideKey separates transposition entries for the same grid with a different
// side to move.
const whiteSideKey = 0x9e3779b97f4a7c15

// MinimaxSelector is a depth-limited alpha-beta searcher with iterative
// deepening, a per-call transposition table and killer-move ordering. All
// per-call state (tables, node counter) is cleared at the start of every
// SelectMove, so instances can be reused across games but never concurrently.
type MinimaxSelector struct {
	cfg  MinimaxConfig
	eval *Evaluator

	tt        map[uint64]ttEntry
	killers   map[int][]killerMove // remaining depth -> up to 2 refutations
	nodes     int
	lastScore float64
}

// NewMinimaxSelector builds a searcher over the given evaluator.
func NewMinimaxSelector(cfg MinimaxConfig, eval *Evaluator) *MinimaxSelector {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMinimaxConfig().MaxDepth
	}
	if cfg.MaxBreadth <= 0 {
		cfg.MaxBreadth = DefaultMinimaxConfig().MaxBreadth
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultMinimaxConfig().Budget
	}
	return &MinimaxSelector{cfg: cfg, eval: eval}
}

func (s *MinimaxSelector) Name() string { return "minimax" }

// Nodes returns the node count of the last search.
func (s *MinimaxSelector) Nodes() int { return s.nodes }

// LastScore returns the root score of the move chosen by the last search.
func (s *MinimaxSelector) LastScore() float64 { return s.lastScore }

// SelectMove runs iterative deepening alpha-beta within the time budget and
// returns the best root move of the deepest completed depth. It returns nil
// when the side has no legal moves, or when the budget dies before a single
// root candidate has been scored — callers treat both as a pass.
func (s *MinimaxSelector) SelectMove(ctx context.Context, b *game.Board, req Request) *game.Move {
	me := req.Color
	candidates := game.CandidateMoves(b, me, req.Ko)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		mv := candidates[0]
		return &mv
	}

	// Fresh tables every call: scores depend on search depth and staleness
	// across positions would be incorrect.
	s.tt = make(map[uint64]ttEntry)
	s.killers = make(map[int][]killerMove)
	s.nodes = 0
	deadline := time.Now().Add(s.cfg.Budget)

	var best *game.Move
	bestScore := math.Inf(-1)

	for depth := 1; depth <= s.cfg.MaxDepth; depth++ {
		ordered := s.orderMoves(b, candidates, depth)
		if len(ordered) > s.cfg.MaxBreadth {
			ordered = ordered[:s.cfg.MaxBreadth]
		}

		var depthBest *game.Move
		depthScore := math.Inf(-1)
		interrupted := false

		for i := range ordered {
			if expired(ctx, deadline) {
				interrupted = true
				break
			}
			mv := ordered[i]
			child := b.Copy()
			_, ko := game.PlayMove(child, mv.X, mv.Y, me)
			score := s.alphabeta(ctx, child, depth-1, math.Inf(-1), math.Inf(1), me.Opponent(), me, ko, deadline)
			if depthBest == nil || score > depthScore {
				m := mv
				depthBest = &m
				depthScore = score
			}
		}

		if interrupted {
			// Partial depth-1 results beat returning nothing; partial deeper
			// results are discarded in favor of the last completed depth.
			if best == nil && depthBest != nil {
				best, bestScore = depthBest, depthScore
			}
			break
		}
		best, bestScore = depthBest, depthScore
	}

	s.lastScore = bestScore
	return best
}

// alphabeta returns the score of the position from me's perspective,
// maximizing when toMove == me. Scores are cached in the transposition table
// keyed by position hash and side to move, and reused only when the stored
// entry was searched at least as deep as requested.
func (s *MinimaxSelector) alphabeta(ctx context.Context, b *game.Board, depth int, alpha, beta float64, toMove, me game.Color, ko int, deadline time.Time) float64 {
	s.nodes++
	if depth == 0 {
		return s.eval.Evaluate(b, me).Total
	}

	key := b.Hash()
	if toMove == game.White {
		key ^= whiteSideKey
	}
	if e, ok := s.tt[key]; ok && e.depth >= depth {
		return e.score
	}

	moves := game.CandidateMoves(b, toMove, ko)
	if len(moves) == 0 {
		score := s.eval.Evaluate(b, me).Total
		s.tt[key] = ttEntry{depth: depth, score: score}
		return score
	}
	ordered := s.orderMoves(b, moves, depth)
	if len(ordered) > s.cfg.MaxBreadth {
		ordered = ordered[:s.cfg.MaxBreadth]
	}

	maximizing := toMove == me
	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	completed := true

	for _, mv := range ordered {
		if expired(ctx, deadline) {
			completed = false
			break
		}
		child := b.Copy()
		_, cko := game.PlayMove(child, mv.X, mv.Y, toMove)
		score := s.alphabeta(ctx, child, depth-1, alpha, beta, toMove.Opponent(), me, cko, deadline)
		if maximizing {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}
		if alpha >= beta {
			s.recordKiller(depth, mv, score)
			break
		}
	}

	if math.IsInf(best, 0) {
		// Budget died before any reply was searched; fall back to a static
		// score and keep it out of the table.
		return s.eval.Evaluate(b, me).Total
	}
	if completed {
		s.tt[key] = ttEntry{depth: depth, score: best}
	}
	return best
}

// orderMoves sorts candidates by a cheap heuristic: capture potential plus
// centrality plus a killer bonus. The stable sort preserves row-major
// generation order on ties, keeping the search deterministic.
func (s *MinimaxSelector) orderMoves(b *game.Board, moves []game.Move, depth int) []game.Move {
	type scored struct {
		mv    game.Move
		score float64
	}
	items := make([]scored, len(moves))
	for i, mv := range moves {
		sc := capturePotential(b, mv) + centrality(b, mv)
		if s.isKiller(depth, mv) {
			sc += killerOrderBonus
		}
		items[i] = scored{mv: mv, score: sc}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	ordered := make([]game.Move, len(items))
	for i, it := range items {
		ordered[i] = it.mv
	}
	return ordered
}

// capturePotential weighs moves by the enemy stones they threaten: a group
// in atari adjacent to the move would be captured outright.
func capturePotential(b *game.Board, mv game.Move) float64 {
	score := 0.0
	seen := make(map[*game.Group]struct{}, 4)
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := mv.X+d[0], mv.Y+d[1]
		if !b.InBounds(nx, ny) {
			continue
		}
		g := b.GroupAt(nx, ny)
		if g == nil || g.Color == mv.Color {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		switch g.LibertyCount() {
		case 1:
			score += 10 * float64(g.Size())
		case 2:
			score += 2 * float64(g.Size())
		}
	}
	return score
}

// centrality prefers moves near the middle of the board.
func centrality(b *game.Board, mv game.Move) float64 {
	half := b.Size() / 2
	d := max(abs(mv.X-half), abs(mv.Y-half))
	return float64(half - d)
}

func (s *MinimaxSelector) isKiller(depth int, mv game.Move) bool {
	for _, k := range s.killers[depth] {
		if k.move == mv {
			return true
		}
	}
	return false
}

// recordKiller keeps the two highest-scoring cutoff moves per remaining
// depth.
func (s *MinimaxSelector) recordKiller(depth int, mv game.Move, score float64) {
	ks := s.killers[depth]
	for i := range ks {
		if ks[i].move == mv {
			if score > ks[i].score {
				ks[i].score = score
			}
			sort.SliceStable(ks, func(a, b int) bool { return ks[a].score > ks[b].score })
			return
		}
	}
	ks = append(ks, killerMove{move: mv, score: score})
	sort.SliceStable(ks, func(a, b int) bool { return ks[a].score > ks[b].score })
	if len(ks) > 2 {
		ks = ks[:2]
	}
	s.killers[depth] = ks
}

func expired(ctx context.Context, deadline time.Time) bool {
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	return time.Now().After(deadline)
}
