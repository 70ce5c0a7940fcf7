package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tenuki/engine/internal/store"
)

// GameStore persists games and moves in PostgreSQL.
type GameStore struct {
	db *sql.DB
}

// NewGameStore creates a GameStore.
func NewGameStore(db *sql.DB) *GameStore {
	return &GameStore{db: db}
}

// CreateGame inserts a new active game and returns its id.
func (s *GameStore) CreateGame(ctx context.Context, size int, komi float64, blackEngine, whiteEngine string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO games (board_size, komi, black_engine, white_engine, status)
		 VALUES ($1, $2, $3, $4, 'active')
		 RETURNING id`,
		size, komi, blackEngine, whiteEngine,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return id, nil
}

// SaveMoves batch-inserts the given moves.
func (s *GameStore) SaveMoves(ctx context.Context, moves []store.MoveRecord) error {
	if len(moves) == 0 {
		return nil
	}
	values := make([]string, 0, len(moves))
	args := make([]any, 0, len(moves)*6)
	for i, mv := range moves {
		base := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, mv.GameID, mv.Number, mv.Color, mv.X, mv.Y, mv.Pass)
	}
	query := `INSERT INTO moves (game_id, move_number, color, x, y, is_pass) VALUES ` +
		strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save moves: %w", err)
	}
	return nil
}

// FinishGame marks a game finished with its outcome.
func (s *GameStore) FinishGame(ctx context.Context, gameID, winner string, score float64, moves int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE games
		 SET status = 'finished', winner = $2, score = $3, moves = $4, finished_at = now()
		 WHERE id = $1`,
		gameID, winner, score, moves)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish game: no game with id %s", gameID)
	}
	return nil
}

// ListRecent returns the most recently created games, newest first.
func (s *GameStore) ListRecent(ctx context.Context, limit int) ([]store.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_size, komi, black_engine, white_engine, status,
		        COALESCE(winner, ''), COALESCE(score, 0), COALESCE(moves, 0),
		        created_at, finished_at
		 FROM games ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent games: %w", err)
	}
	defer rows.Close()

	var games []store.GameRecord
	for rows.Next() {
		var g store.GameRecord
		var finished sql.NullTime
		if err := rows.Scan(&g.ID, &g.BoardSize, &g.Komi, &g.BlackEngine, &g.WhiteEngine,
			&g.Status, &g.Winner, &g.Score, &g.Moves, &g.CreatedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			g.FinishedAt = &t
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
