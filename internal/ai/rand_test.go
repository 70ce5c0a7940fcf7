package ai

import (
	"context"
	"testing"

	"github.com/tenuki/engine/internal/game"
)

func TestSeedRngMakesUnseededSelectorsReproducible(t *testing.T) {
	defer ResetRng()

	b := game.NewBoard(9)
	req := Request{Color: game.Black, Ko: game.NoKo}

	// Two selectors built with seed 0 draw their seed from the package
	// source, so re-seeding it replays the same move sequence.
	SeedRng(11)
	first := NewRandomSelector(0).SelectMove(context.Background(), b, req)
	SeedRng(11)
	second := NewRandomSelector(0).SelectMove(context.Background(), b, req)

	if first == nil || second == nil {
		t.Fatal("no move returned on an empty board")
	}
	if *first != *second {
		t.Fatalf("re-seeded selectors diverged: %v vs %v", first, second)
	}
}
