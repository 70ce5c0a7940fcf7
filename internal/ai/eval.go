package ai

import (
	"math"
	"sort"

	"github.com/tenuki/engine/internal/game"
)

// Weights holds the evaluator's tunable constants. The defaults reproduce
// the engine's reference behavior; they are configuration, not rules.
type Weights struct {
	// Term multipliers for the aggregate score.
	Territory float64
	Influence float64
	Capture   float64
	Pattern   float64
	Safety    float64

	// Influence field: each stone radiates ±InfluenceStrength decaying by
	// exp(-InfluenceDecay) per Chebyshev step, truncated at InfluenceRadius.
	InfluenceStrength float64
	InfluenceDecay    float64
	InfluenceRadius   int

	// Capture term: bonus per opposing group in atari / at two liberties.
	AtariBonus      float64
	TwoLibertyBonus float64

	// Safety term: per-stone penalties and bonuses by own-group liberties.
	SafetyAtariPenalty float64 // 1 liberty
	SafetyWeakPenalty  float64 // 2 liberties
	SafetyStrongBonus  float64 // >= 4 liberties

	// Logistic scale mapping total score to winning probability.
	WinScale float64
}

// DefaultWeights returns the reference constants.
func DefaultWeights() Weights {
	return Weights{
		Territory:          1.0,
		Influence:          0.8,
		Capture:            1.5,
		Pattern:            0.6,
		Safety:             0.9,
		InfluenceStrength:  10,
		InfluenceDecay:     0.5,
		InfluenceRadius:    5,
		AtariBonus:         50,
		TwoLibertyBonus:    10,
		SafetyAtariPenalty: 30,
		SafetyWeakPenalty:  5,
		SafetyStrongBonus:  5,
		WinScale:           50,
	}
}

// Evaluation is the static score of one position from one side's
// perspective. Pure value type; recomputed on demand and cached by the
// owning Evaluator.
type Evaluation struct {
	Territory      float64 `json:"territory"`
	Influence      float64 `json:"influence"`
	Capture        float64 `json:"capture"`
	Safety         float64 `json:"safety"`
	Pattern        float64 `json:"pattern"`
	Total          float64 `json:"total"`
	WinProbability float64 `json:"winProbability"`
}

// ScoredMove pairs a candidate move with the evaluation of the position it
// produces. Search bookkeeping only; the rules layer never reads it.
type ScoredMove struct {
	Move           game.Move `json:"move"`
	Score          float64   `json:"score"`
	WinProbability float64   `json:"winProbability"`
}

type evalKey struct {
	hash  uint64
	color game.Color
}

// PatternFunc is the strategy-specific pattern term hook; the base evaluator
// uses none and scores the term as zero.
type PatternFunc func(b *game.Board, c game.Color) float64

// Evaluator computes static position scores, cached by board hash for its
// own lifetime. One evaluator belongs to one searcher instance and must not
// be shared across independent games; call Reset between unrelated games.
type Evaluator struct {
	weights Weights
	pattern PatternFunc
	cache   map[evalKey]Evaluation
}

// NewEvaluator returns a base evaluator (zero pattern term).
func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w, cache: make(map[evalKey]Evaluation)}
}

// NewPatternEvaluator returns an evaluator with a pattern term hook.
func NewPatternEvaluator(w Weights, pattern PatternFunc) *Evaluator {
	return &Evaluator{weights: w, pattern: pattern, cache: make(map[evalKey]Evaluation)}
}

// Reset drops all cached evaluations.
func (e *Evaluator) Reset() {
	e.cache = make(map[evalKey]Evaluation)
}

// Evaluate scores the position from c's perspective. The board is never
// mutated; repeated calls on an unmutated board hit the cache and return
// identical results.
func (e *Evaluator) Evaluate(b *game.Board, c game.Color) Evaluation {
	key := evalKey{hash: b.Hash(), color: c}
	if ev, ok := e.cache[key]; ok {
		return ev
	}

	w := e.weights
	ev := Evaluation{
		Territory: e.territory(b, c),
		Influence: e.influence(b, c),
		Capture:   e.capture(b, c),
		Safety:    e.safety(b, c),
	}
	if e.pattern != nil {
		ev.Pattern = e.pattern(b, c)
	}
	ev.Total = ev.Territory*w.Territory +
		ev.Influence*w.Influence +
		ev.Capture*w.Capture +
		ev.Pattern*w.Pattern +
		ev.Safety*w.Safety
	ev.WinProbability = 1 / (1 + math.Exp(-ev.Total/w.WinScale))

	e.cache[key] = ev
	return ev
}

func (e *Evaluator) territory(b *game.Board, c game.Color) float64 {
	tb, tw := game.Territory(b)
	if c == game.Black {
		return float64(tb - tw)
	}
	return float64(tw - tb)
}

// influence sums a signed potential field: every stone radiates strength
// into the cells within InfluenceRadius Chebyshev steps, own stones positive
// and opposing stones negative. Border truncation is what makes central
// stones worth more than edge stones.
func (e *Evaluator) influence(b *game.Board, c game.Color) float64 {
	w := e.weights
	size := b.Size()
	total := 0.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			stone := b.Stone(x, y)
			if stone == game.Empty {
				continue
			}
			field := 0.0
			for dy := -w.InfluenceRadius; dy <= w.InfluenceRadius; dy++ {
				for dx := -w.InfluenceRadius; dx <= w.InfluenceRadius; dx++ {
					if !b.InBounds(x+dx, y+dy) {
						continue
					}
					d := max(abs(dx), abs(dy))
					field += w.InfluenceStrength * math.Exp(-w.InfluenceDecay*float64(d))
				}
			}
			if stone == c {
				total += field
			} else {
				total -= field
			}
		}
	}
	return total
}

func (e *Evaluator) capture(b *game.Board, c game.Color) float64 {
	w := e.weights
	score := 0.0
	for _, g := range b.Groups() {
		if g.Color == c {
			continue
		}
		switch g.LibertyCount() {
		case 1:
			score += w.AtariBonus
		case 2:
			score += w.TwoLibertyBonus
		}
	}
	return score
}

func (e *Evaluator) safety(b *game.Board, c game.Color) float64 {
	w := e.weights
	score := 0.0
	for _, g := range b.Groups() {
		if g.Color != c {
			continue
		}
		size := float64(g.Size())
		switch libs := g.LibertyCount(); {
		case libs == 1:
			score -= w.SafetyAtariPenalty * size
		case libs == 2:
			score -= w.SafetyWeakPenalty * size
		case libs >= 4:
			score += w.SafetyStrongBonus * size
		}
	}
	return score
}

// RankMoves evaluates every candidate move for c by playing it on a copy and
// scoring the result, returned best first. Ties keep row-major generation
// order, so identical inputs always rank identically.
func (e *Evaluator) RankMoves(b *game.Board, c game.Color, ko int) []ScoredMove {
	candidates := game.CandidateMoves(b, c, ko)
	ranked := make([]ScoredMove, 0, len(candidates))
	for _, mv := range candidates {
		child := b.Copy()
		game.PlayMove(child, mv.X, mv.Y, c)
		ev := e.Evaluate(child, c)
		ranked = append(ranked, ScoredMove{Move: mv, Score: ev.Total, WinProbability: ev.WinProbability})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
