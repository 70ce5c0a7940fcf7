package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tenuki/engine/internal/ai"
	"github.com/tenuki/engine/internal/game"
	"github.com/tenuki/engine/internal/store"
)

// Config configures a single engine-vs-engine game.
type Config struct {
	Size     int     // board size, default 9
	Komi     float64 // default 7.5
	Black    string  // difficulty level for black
	White    string  // difficulty level for white
	MaxMoves int     // ply cap for a draw-by-adjournment, default 3·size²
	Seed     int64   // 0 = random
	Oracle   ai.Oracle
	DryRun   bool // skip store writes
}

// Result describes the outcome of a completed arena game.
type Result struct {
	GameID string
	Winner string  // "black", "white" or "draw"
	Score  float64 // area score from black's perspective
	Moves  int     // plies played, passes included
	Passes int
}

// RunGame plays a full game between two selectors, recording it through the
// store. Pass a nil store or set DryRun for an unrecorded game.
func RunGame(ctx context.Context, cfg Config, st store.GameStore) (*Result, error) {
	if cfg.Size == 0 {
		cfg.Size = 9
	}
	if cfg.Komi == 0 {
		cfg.Komi = 7.5
	}
	if cfg.MaxMoves == 0 {
		cfg.MaxMoves = 3 * cfg.Size * cfg.Size
	}

	opts := ai.DefaultOptions()
	opts.Seed = cfg.Seed
	opts.Oracle = cfg.Oracle
	opts.MCTS.Komi = cfg.Komi
	opts.Guided.Komi = cfg.Komi
	selectors := map[game.Color]ai.MoveSelector{
		game.Black: ai.ForDifficulty(cfg.Black, opts),
		game.White: ai.ForDifficulty(cfg.White, opts),
	}

	record := !cfg.DryRun && st != nil
	var gameID string
	if record {
		var err error
		gameID, err = st.CreateGame(ctx, cfg.Size, cfg.Komi,
			selectors[game.Black].Name(), selectors[game.White].Name())
		if err != nil {
			return nil, fmt.Errorf("create arena game: %w", err)
		}
	}

	b := game.NewBoard(cfg.Size)
	result := &Result{GameID: gameID}
	var moves []store.MoveRecord

	toMove := game.Black
	ko := game.NoKo
	passes := 0
	started := time.Now()

	for result.Moves < cfg.MaxMoves && passes < 2 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Moves++

		mv := selectors[toMove].SelectMove(ctx, b, ai.Request{
			Color:      toMove,
			Ko:         ko,
			MoveNumber: result.Moves,
		})
		rec := store.MoveRecord{
			GameID: gameID,
			Number: result.Moves,
			Color:  toMove.String(),
		}
		if mv == nil {
			passes++
			result.Passes++
			ko = game.NoKo
			rec.X, rec.Y, rec.Pass = -1, -1, true
		} else {
			passes = 0
			_, ko = game.PlayMove(b, mv.X, mv.Y, toMove)
			rec.X, rec.Y = mv.X, mv.Y
		}
		moves = append(moves, rec)
		toMove = toMove.Opponent()
	}

	result.Score = game.AreaScore(b, cfg.Komi)
	switch {
	case result.Score > 0:
		result.Winner = "black"
	case result.Score < 0:
		result.Winner = "white"
	default:
		result.Winner = "draw"
	}

	if record {
		if err := st.SaveMoves(ctx, moves); err != nil {
			return nil, fmt.Errorf("save arena moves: %w", err)
		}
		if err := st.FinishGame(ctx, gameID, result.Winner, result.Score, result.Moves); err != nil {
			return nil, fmt.Errorf("finish arena game: %w", err)
		}
	}

	log.Info().
		Str("gameId", gameID).
		Str("black", selectors[game.Black].Name()).
		Str("white", selectors[game.White].Name()).
		Str("winner", result.Winner).
		Float64("score", result.Score).
		Int("moves", result.Moves).
		Dur("elapsed", time.Since(started)).
		Msg("arena game finished")
	return result, nil
}
