package arena

import (
	"context"
	"fmt"
	"testing"

	"github.com/tenuki/engine/internal/store"
)

// memStore is an in-memory store.GameStore for arena tests.
type memStore struct {
	games    map[string]*store.GameRecord
	moves    []store.MoveRecord
	nextID   int
	finished int
}

func newMemStore() *memStore {
	return &memStore{games: make(map[string]*store.GameRecord)}
}

func (m *memStore) CreateGame(_ context.Context, size int, komi float64, black, white string) (string, error) {
	m.nextID++
	id := fmt.Sprintf("game-%d", m.nextID)
	m.games[id] = &store.GameRecord{ID: id, BoardSize: size, Komi: komi, BlackEngine: black, WhiteEngine: white, Status: "active"}
	return id, nil
}

func (m *memStore) SaveMoves(_ context.Context, moves []store.MoveRecord) error {
	m.moves = append(m.moves, moves...)
	return nil
}

func (m *memStore) FinishGame(_ context.Context, gameID, winner string, score float64, moves int) error {
	g, ok := m.games[gameID]
	if !ok {
		return fmt.Errorf("no game %s", gameID)
	}
	g.Status = "finished"
	g.Winner = winner
	g.Score = score
	g.Moves = moves
	m.finished++
	return nil
}

func (m *memStore) ListRecent(context.Context, int) ([]store.GameRecord, error) {
	out := make([]store.GameRecord, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, *g)
	}
	return out, nil
}

func TestRunGameDryRun(t *testing.T) {
	cfg := Config{
		Size:   5,
		Komi:   7.5,
		Black:  "random",
		White:  "random",
		Seed:   1,
		DryRun: true,
	}
	res, err := RunGame(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}
	if res.Moves == 0 {
		t.Fatal("no moves played")
	}
	if res.Moves > 3*5*5 {
		t.Fatalf("ply cap exceeded: %d", res.Moves)
	}
	switch res.Winner {
	case "black", "white", "draw":
	default:
		t.Fatalf("unexpected winner %q", res.Winner)
	}
	if res.GameID != "" {
		t.Fatalf("dry run produced a game id %q", res.GameID)
	}
}

func TestRunGameRecordsMovesAndOutcome(t *testing.T) {
	st := newMemStore()
	cfg := Config{Size: 5, Black: "random", White: "random", Seed: 2}
	res, err := RunGame(context.Background(), cfg, st)
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}
	if res.GameID == "" {
		t.Fatal("no game id from the store")
	}
	if st.finished != 1 {
		t.Fatalf("finished %d games in the store, want 1", st.finished)
	}
	if len(st.moves) != res.Moves {
		t.Fatalf("stored %d moves, result says %d", len(st.moves), res.Moves)
	}
	for i, mv := range st.moves {
		if mv.GameID != res.GameID {
			t.Fatalf("move %d has game id %q, want %q", i, mv.GameID, res.GameID)
		}
		if mv.Number != i+1 {
			t.Fatalf("move %d has number %d", i, mv.Number)
		}
		if mv.Pass && (mv.X != -1 || mv.Y != -1) {
			t.Fatalf("pass move %d carries coordinates (%d,%d)", i, mv.X, mv.Y)
		}
	}
	g := st.games[res.GameID]
	if g.Status != "finished" || g.Winner != res.Winner {
		t.Fatalf("stored game not finalized: %+v", g)
	}
}

func TestRunGameHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunGame(ctx, Config{Size: 5, Black: "random", White: "random", DryRun: true}, nil); err == nil {
		t.Fatal("expected a context error")
	}
}
