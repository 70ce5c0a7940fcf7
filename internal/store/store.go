package store

import (
	"context"
	"time"
)

// GameRecord is a finished or in-progress self-play/server game.
type GameRecord struct {
	ID          string     `json:"id"`
	BoardSize   int        `json:"boardSize"`
	Komi        float64    `json:"komi"`
	BlackEngine string     `json:"blackEngine"`
	WhiteEngine string     `json:"whiteEngine"`
	Status      string     `json:"status"` // "active" or "finished"
	Winner      string     `json:"winner"` // "black", "white" or "draw"
	Score       float64    `json:"score"`  // area score from black's perspective
	Moves       int        `json:"moves"`
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// MoveRecord is one ply of a recorded game. Pass moves carry X = Y = -1.
type MoveRecord struct {
	GameID string `json:"gameId"`
	Number int    `json:"number"`
	Color  string `json:"color"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Pass   bool   `json:"pass"`
}

// GameStore persists recorded games and their moves.
type GameStore interface {
	CreateGame(ctx context.Context, size int, komi float64, blackEngine, whiteEngine string) (string, error)
	SaveMoves(ctx context.Context, moves []MoveRecord) error
	FinishGame(ctx context.Context, gameID, winner string, score float64, moves int) error
	ListRecent(ctx context.Context, limit int) ([]GameRecord, error)
}
