package ai

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/tenuki/engine/internal/game"
)

// GuidedConfig bounds a PUCT search driven by an external policy/value
// oracle.
type GuidedConfig struct {
	Simulations      int
	Budget           time.Duration
	CPuct            float64 // exploration constant in the PUCT term
	DirichletAlpha   float64 // root noise concentration
	DirichletEpsilon float64 // root noise blend weight
	Temperature      float64 // 0 = argmax visits, 1 = proportional sampling
	Komi             float64
	Seed             int64
}

// DefaultGuidedConfig returns the reference search bounds.
func DefaultGuidedConfig() GuidedConfig {
	return GuidedConfig{
		Simulations:      800,
		Budget:           5 * time.Second,
		CPuct:            1.5,
		DirichletAlpha:   0.3,
		DirichletEpsilon: 0.25,
		Komi:             7.5,
	}
}

// puctNode mirrors uctNode but carries a prior probability and a running
// value sum instead of win counters. valueSum accumulates in [-1, 1] from
// the perspective of the node's own mover.
type puctNode struct {
	parent   int32
	move     game.Move
	toMove   game.Color
	ko       int
	children []int32
	visits   int
	valueSum float64
	prior    float64
	expanded bool
	terminal bool
}

type puctTree struct {
	nodes []puctNode
}

func (t *puctTree) add(n puctNode) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (n *puctNode) q() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.valueSum / float64(n.visits)
}

// GuidedMCTSSelector is the PUCT variant of the Monte Carlo searcher: the
// oracle's policy seeds child priors, its value estimate replaces rollouts,
// root priors are blended with Dirichlet noise, and the final move is drawn
// from visit counts under a temperature. A failed inference call degrades
// that simulation to uniform priors and the terminal heuristic; a missing
// oracle is handled one level up by falling back to plain MCTS.
type GuidedMCTSSelector struct {
	cfg    GuidedConfig
	oracle Oracle
	rng    *rand.Rand
}

// NewGuidedMCTSSelector builds a PUCT searcher over the given oracle.
func NewGuidedMCTSSelector(cfg GuidedConfig, oracle Oracle) *GuidedMCTSSelector {
	def := DefaultGuidedConfig()
	if cfg.Simulations <= 0 {
		cfg.Simulations = def.Simulations
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if cfg.CPuct <= 0 {
		cfg.CPuct = def.CPuct
	}
	if cfg.DirichletAlpha <= 0 {
		cfg.DirichletAlpha = def.DirichletAlpha
	}
	if cfg.DirichletEpsilon < 0 || cfg.DirichletEpsilon > 1 {
		cfg.DirichletEpsilon = def.DirichletEpsilon
	}
	if cfg.Komi == 0 {
		cfg.Komi = def.Komi
	}
	return &GuidedMCTSSelector{cfg: cfg, oracle: oracle, rng: newRng(cfg.Seed)}
}

func (s *GuidedMCTSSelector) Name() string { return "guided" }

func (s *GuidedMCTSSelector) SelectMove(ctx context.Context, b *game.Board, req Request) *game.Move {
	candidates := game.CandidateMoves(b, req.Color, req.Ko)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		mv := candidates[0]
		return &mv
	}

	t := &puctTree{nodes: make([]puctNode, 0, s.cfg.Simulations+1)}
	root := t.add(puctNode{parent: -1, toMove: req.Color, ko: req.Ko})

	deadline := time.Now().Add(s.cfg.Budget)
	for sim := 0; sim < s.cfg.Simulations; sim++ {
		if expired(ctx, deadline) {
			break
		}
		s.simulate(t, root, b)
	}

	return s.chooseByTemperature(t, root)
}

// simulate runs one PUCT pass: descend through expanded nodes, evaluate the
// leaf with the oracle (or the terminal heuristic), expand all children at
// once, and back up the value.
func (s *GuidedMCTSSelector) simulate(t *puctTree, root int32, rootBoard *game.Board) {
	b := rootBoard.Copy()
	cur := root

	for t.nodes[cur].expanded && len(t.nodes[cur].children) > 0 {
		cur = s.selectChild(t, cur)
		mv := t.nodes[cur].move
		_, ko := game.PlayMove(b, mv.X, mv.Y, mv.Color)
		t.nodes[cur].ko = ko
	}

	toMove := t.nodes[cur].toMove
	var value float64 // from toMove's perspective, in [-1, 1]

	if t.nodes[cur].terminal {
		value = terminalValue(b, toMove, s.cfg.Komi)
	} else {
		moves := game.CandidateMoves(b, toMove, t.nodes[cur].ko)
		if len(moves) == 0 {
			t.nodes[cur].terminal = true
			value = terminalValue(b, toMove, s.cfg.Komi)
		} else {
			priors, oracleValue, ok := s.evaluateLeaf(b, toMove, moves)
			if ok {
				value = oracleValue
			} else {
				value = terminalValue(b, toMove, s.cfg.Komi)
			}
			next := toMove.Opponent()
			for i, mv := range moves {
				ci := t.add(puctNode{
					parent: cur,
					move:   mv,
					toMove: next,
					ko:     game.NoKo, // set when the child is first traversed
					prior:  priors[i],
				})
				t.nodes[cur].children = append(t.nodes[cur].children, ci)
			}
			t.nodes[cur].expanded = true
			if cur == root {
				s.addRootNoise(t, root)
			}
		}
	}

	// Back up: value is from the leaf mover-to-move's perspective; each step
	// toward the root flips sides. A node's mover is the opponent of its
	// toMove, so the leaf node itself accumulates -value.
	v := -value
	for idx := cur; idx >= 0; idx = t.nodes[idx].parent {
		n := &t.nodes[idx]
		n.visits++
		if idx != root {
			n.valueSum += v
		}
		v = -v
	}
}

// evaluateLeaf queries the oracle and masks its policy to the legal moves,
// renormalizing to sum to 1. On inference failure it reports uniform priors
// and no value, and the caller degrades to the terminal heuristic.
func (s *GuidedMCTSSelector) evaluateLeaf(b *game.Board, toMove game.Color, moves []game.Move) ([]float64, float64, bool) {
	priors := make([]float64, len(moves))
	policy, value, err := s.oracle.Predict(b, toMove)
	if err != nil || len(policy) < b.Size()*b.Size() {
		if err != nil {
			log.Debug().Err(err).Msg("ai: oracle inference failed, using uniform priors")
		}
		uniform := 1 / float64(len(moves))
		for i := range priors {
			priors[i] = uniform
		}
		return priors, 0, false
	}
	for i, mv := range moves {
		priors[i] = float64(policy[b.Index(mv.X, mv.Y)])
	}
	if sum := floats.Sum(priors); sum > 0 {
		floats.Scale(1/sum, priors)
	} else {
		uniform := 1 / float64(len(moves))
		for i := range priors {
			priors[i] = uniform
		}
	}
	return priors, clampValue(float64(value)), true
}

// addRootNoise blends Dirichlet exploration noise into the root children's
// priors: prior' = (1-ε)·prior + ε·noise. Applied once, at the root only.
func (s *GuidedMCTSSelector) addRootNoise(t *puctTree, root int32) {
	children := t.nodes[root].children
	if len(children) < 2 || s.cfg.DirichletEpsilon == 0 {
		return
	}
	alpha := make([]float64, len(children))
	for i := range alpha {
		alpha[i] = s.cfg.DirichletAlpha
	}
	dir := distmv.NewDirichlet(alpha, exprand.NewSource(uint64(s.rng.Int63())))
	noise := dir.Rand(nil)
	eps := s.cfg.DirichletEpsilon
	for i, ci := range children {
		n := &t.nodes[ci]
		n.prior = (1-eps)*n.prior + eps*noise[i]
	}
}

// selectChild picks the child maximizing Q + c_puct·P·√N/(1+n), where Q is
// the child's mean value (0 if unvisited) from its own mover's perspective.
func (s *GuidedMCTSSelector) selectChild(t *puctTree, parent int32) int32 {
	sqrtN := math.Sqrt(float64(t.nodes[parent].visits))
	children := t.nodes[parent].children
	best := children[0]
	bestScore := math.Inf(-1)
	for _, ci := range children {
		c := &t.nodes[ci]
		u := s.cfg.CPuct * c.prior * sqrtN / (1 + float64(c.visits))
		if score := c.q() + u; score > bestScore {
			bestScore = score
			best = ci
		}
	}
	return best
}

// chooseByTemperature applies P(child) ∝ visits^(1/τ): τ=0 is deterministic
// argmax, τ>0 samples (τ=1 is proportional to visit counts).
func (s *GuidedMCTSSelector) chooseByTemperature(t *puctTree, root int32) *game.Move {
	children := t.nodes[root].children
	if len(children) == 0 {
		return nil
	}
	if s.cfg.Temperature <= 0 {
		return puctBestByVisits(t, root)
	}
	weights := make([]float64, len(children))
	for i, ci := range children {
		weights[i] = math.Pow(float64(t.nodes[ci].visits), 1/s.cfg.Temperature)
	}
	total := floats.Sum(weights)
	if total == 0 {
		return puctBestByVisits(t, root)
	}
	pick := s.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if pick < acc {
			mv := t.nodes[children[i]].move
			return &mv
		}
	}
	mv := t.nodes[children[len(children)-1]].move
	return &mv
}

func puctBestByVisits(t *puctTree, root int32) *game.Move {
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

// terminalValue is the leaf heuristic used without an oracle estimate: the
// stone-count differential normalized to [-1, 1] from toMove's perspective.
func terminalValue(b *game.Board, toMove game.Color, komi float64) float64 {
	score := game.StoneScore(b, komi) // black's perspective
	if toMove == game.White {
		score = -score
	}
	return clampValue(score / float64(b.Size()*b.Size()))
}

func clampValue(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
