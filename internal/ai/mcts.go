package ai

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/tenuki/engine/internal/game"
)

// MCTSConfig bounds a plain UCT search.
type MCTSConfig struct {
	Simulations     int           // simulation cap per SelectMove
	Budget          time.Duration // wall clock per SelectMove
	Exploration     float64       // UCB1 constant C
	MaxRolloutPlies int           // 0 = 2·N² at call time
	Komi            float64       // compensation added to white's score
	Seed            int64         // 0 = non-deterministic
}

// DefaultMCTSConfig returns the reference search bounds.
func DefaultMCTSConfig() MCTSConfig {
	return MCTSConfig{
		Simulations: 2000,
		Budget:      3 * time.Second,
		Exploration: 1.4,
		Komi:        7.5,
	}
}

// uctNode lives in an index-addressed arena: parent and children are arena
// indices rather than pointers, and backpropagation walks parent indices.
// wins accumulates from the perspective of the node's own mover (the color
// of node.move), so a parent compares its children by their movers' win
// rates directly.
type uctNode struct {
	parent   int32
	move     game.Move
	toMove   game.Color // side to move in the node's position
	ko       int
	children []int32
	untried  []game.Move
	visits   int
	wins     float64
}

type uctTree struct {
	nodes []uctNode
}

func (t *uctTree) add(n uctNode) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// MCTSSelector is a single-threaded UCB1 Monte Carlo tree searcher with
// uniform-random rollouts. Each SelectMove call builds a fresh tree; nothing
// is shared between calls.
type MCTSSelector struct {
	cfg MCTSConfig
	rng *rand.Rand
}

// NewMCTSSelector builds a UCT searcher.
func NewMCTSSelector(cfg MCTSConfig) *MCTSSelector {
	def := DefaultMCTSConfig()
	if cfg.Simulations <= 0 {
		cfg.Simulations = def.Simulations
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if cfg.Exploration <= 0 {
		cfg.Exploration = def.Exploration
	}
	if cfg.Komi == 0 {
		cfg.Komi = def.Komi
	}
	return &MCTSSelector{cfg: cfg, rng: newRng(cfg.Seed)}
}

func (s *MCTSSelector) Name() string { return "mcts" }

// SelectMove runs simulations until the cap or the budget is hit and returns
// the root child with the most visits — the robustness-weighted choice — or
// nil when the side has no legal moves or no simulation completed in time.
func (s *MCTSSelector) SelectMove(ctx context.Context, b *game.Board, req Request) *game.Move {
	candidates := game.CandidateMoves(b, req.Color, req.Ko)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		mv := candidates[0]
		return &mv
	}

	t := &uctTree{nodes: make([]uctNode, 0, s.cfg.Simulations+1)}
	root := t.add(uctNode{parent: -1, toMove: req.Color, ko: req.Ko, untried: candidates})

	maxPlies := s.cfg.MaxRolloutPlies
	if maxPlies <= 0 {
		maxPlies = 2 * b.Size() * b.Size()
	}

	deadline := time.Now().Add(s.cfg.Budget)
	for sim := 0; sim < s.cfg.Simulations; sim++ {
		if expired(ctx, deadline) {
			break
		}
		s.simulate(t, root, b, maxPlies)
	}

	return bestByVisits(t, root)
}

// simulate runs one selection → expansion → rollout → backpropagation pass
// on a private copy of the root board.
func (s *MCTSSelector) simulate(t *uctTree, root int32, rootBoard *game.Board, maxPlies int) {
	b := rootBoard.Copy()
	cur := root

	// Selection: descend while fully expanded.
	for len(t.nodes[cur].untried) == 0 && len(t.nodes[cur].children) > 0 {
		cur = s.selectChild(t, cur)
		mv := t.nodes[cur].move
		_, ko := game.PlayMove(b, mv.X, mv.Y, mv.Color)
		t.nodes[cur].ko = ko
	}

	// Expansion: materialize one random untried child.
	if n := t.nodes[cur]; len(n.untried) > 0 {
		i := s.rng.Intn(len(n.untried))
		mv := n.untried[i]
		t.nodes[cur].untried = append(n.untried[:i], n.untried[i+1:]...)

		_, ko := game.PlayMove(b, mv.X, mv.Y, mv.Color)
		next := n.toMove.Opponent()
		child := t.add(uctNode{
			parent:  cur,
			move:    mv,
			toMove:  next,
			ko:      ko,
			untried: game.CandidateMoves(b, next, ko),
		})
		t.nodes[cur].children = append(t.nodes[cur].children, child)
		cur = child
	}

	// Rollout from the expanded node, scored for black.
	blackResult := s.rollout(b, t.nodes[cur].toMove, t.nodes[cur].ko, maxPlies)

	// Backpropagation: every node's wins reflect its own mover's outcome.
	for idx := cur; idx >= 0; idx = t.nodes[idx].parent {
		n := &t.nodes[idx]
		n.visits++
		switch n.move.Color {
		case game.Black:
			n.wins += blackResult
		case game.White:
			n.wins += 1 - blackResult
		}
	}
}

// selectChild picks the child maximizing UCB1:
// wins/visits + C·√(2·ln(parentVisits)/visits).
func (s *MCTSSelector) selectChild(t *uctTree, parent int32) int32 {
	pn := float64(t.nodes[parent].visits)
	best := t.nodes[parent].children[0]
	bestScore := math.Inf(-1)
	for _, ci := range t.nodes[parent].children {
		c := t.nodes[ci]
		exploit := c.wins / float64(c.visits)
		explore := s.cfg.Exploration * math.Sqrt(2*math.Log(pn)/float64(c.visits))
		if score := exploit + explore; score > bestScore {
			bestScore = score
			best = ci
		}
	}
	return best
}

// rollout plays uniformly random non-eye-filling legal moves for both sides
// until two consecutive passes or the ply cap, then scores the position by
// stone count with komi. Returns 1/0.5/0 from black's perspective.
func (s *MCTSSelector) rollout(b *game.Board, toMove game.Color, ko, maxPlies int) float64 {
	passes := 0
	for ply := 0; ply < maxPlies && passes < 2; ply++ {
		moves := game.CandidateMoves(b, toMove, ko)
		if len(moves) == 0 {
			passes++
			ko = game.NoKo
			toMove = toMove.Opponent()
			continue
		}
		passes = 0
		mv := moves[s.rng.Intn(len(moves))]
		_, ko = game.PlayMove(b, mv.X, mv.Y, mv.Color)
		toMove = toMove.Opponent()
	}
	score := game.StoneScore(b, s.cfg.Komi)
	switch {
	case score > 0:
		return 1
	case score < 0:
		return 0
	}
	return 0.5
}

// bestByVisits returns the root child with the highest visit count, ties
// broken by creation order. Nil when no child was ever expanded.
func bestByVisits(t *uctTree, root int32) *game.Move {
	var best *game.Move
	bestVisits := -1
	for _, ci := range t.nodes[root].children {
		c := t.nodes[ci]
		if c.visits > bestVisits {
			bestVisits = c.visits
			mv := c.move
			best = &mv
		}
	}
	return best
}
