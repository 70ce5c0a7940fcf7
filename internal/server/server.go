package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tenuki/engine/internal/ai"
	"github.com/tenuki/engine/internal/game"
	"github.com/tenuki/engine/internal/middleware"
)

// Server exposes the engine over HTTP and WebSocket: move selection,
// position evaluation (optionally Redis-cached) and a streaming analysis
// endpoint for replay tooling.
type Server struct {
	opts  ai.Options
	cache *EvalCache
}

// New builds a server. opts carries the evaluator weights, search configs and
// the oracle (nil for no guided search); cache may be nil.
func New(opts ai.Options, cache *EvalCache) *Server {
	return &Server{opts: opts, cache: cache}
}

// Routes returns the full handler with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/move", s.handleMove)
	mux.HandleFunc("POST /api/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /api/v1/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return middleware.Chain(mux, middleware.Logger, middleware.CORS("*"))
}

// point is a board coordinate on the wire.
type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// position is the common request payload: a board as rows of '.', 'X', 'O'
// plus the side to move and an optional ko point.
type position struct {
	Board  []string `json:"board"`
	ToMove string   `json:"to_move"`
	Ko     *point   `json:"ko,omitempty"`
}

type moveRequest struct {
	position
	MoveNumber int    `json:"move_number,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type moveResponse struct {
	Move   *point `json:"move"` // null = pass
	Engine string `json:"engine"`
}

type evaluateResponse struct {
	Evaluation ai.Evaluation `json:"evaluation"`
	BestMoves  []scoredMove  `json:"bestMoves"`
	Hash       string        `json:"hash"`
}

type scoredMove struct {
	Move           point   `json:"move"`
	Score          float64 `json:"score"`
	WinProbability float64 `json:"winProbability"`
}

// parsePosition validates the shared payload and returns the board, side to
// move and flat ko index.
func parsePosition(p position) (*game.Board, game.Color, int, error) {
	b, err := game.ParseBoard(p.Board)
	if err != nil {
		return nil, game.Empty, game.NoKo, err
	}
	var c game.Color
	switch p.ToMove {
	case "black":
		c = game.Black
	case "white":
		c = game.White
	default:
		return nil, game.Empty, game.NoKo, fmt.Errorf("to_move must be \"black\" or \"white\", got %q", p.ToMove)
	}
	ko := game.NoKo
	if p.Ko != nil {
		if !b.InBounds(p.Ko.X, p.Ko.Y) {
			return nil, game.Empty, game.NoKo, fmt.Errorf("ko point (%d,%d) is off the board", p.Ko.X, p.Ko.Y)
		}
		ko = b.Index(p.Ko.X, p.Ko.Y)
	}
	return b, c, ko, nil
}

// handleMove handles POST /api/v1/move — runs the requested difficulty's
// selector on the client's position.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, c, ko, err := parsePosition(req.position)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	selector := ai.ForDifficulty(req.Difficulty, s.opts)
	mv := selector.SelectMove(r.Context(), b, ai.Request{
		Color:      c,
		Ko:         ko,
		MoveNumber: req.MoveNumber,
	})

	resp := moveResponse{Engine: selector.Name()}
	if mv != nil {
		resp.Move = &point{X: mv.X, Y: mv.Y}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvaluate handles POST /api/v1/evaluate — static evaluation plus the
// top ranked moves, cached by position hash when a cache is configured.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req position
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, c, ko, err := parsePosition(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := evalCacheKey(b.Hash(), c.String(), ko)
	if body, ok := s.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	resp := s.evaluate(b, c, ko)
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode evaluation")
		return
	}
	s.cache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

const maxBestMoves = 5

// evaluate computes the response for one position. Evaluators are per-request:
// they are not goroutine-safe and the Redis cache already absorbs repeats.
func (s *Server) evaluate(b *game.Board, c game.Color, ko int) evaluateResponse {
	eval := ai.NewEvaluator(s.opts.Weights)
	resp := evaluateResponse{
		Evaluation: eval.Evaluate(b, c),
		Hash:       fmt.Sprintf("%016x", b.Hash()),
	}
	ranked := eval.RankMoves(b, c, ko)
	if len(ranked) > maxBestMoves {
		ranked = ranked[:maxBestMoves]
	}
	for _, sm := range ranked {
		resp.BestMoves = append(resp.BestMoves, scoredMove{
			Move:           point{X: sm.Move.X, Y: sm.Move.Y},
			Score:          sm.Score,
			WinProbability: sm.WinProbability,
		})
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
