package ai

import (
	"testing"

	"github.com/tenuki/engine/internal/game"
)

func TestCompiledPatternsHaveEmptyCenter(t *testing.T) {
	ps := DefaultPatterns()
	if len(ps.compiled) == 0 {
		t.Fatal("no compiled patterns")
	}
	for i, p := range ps.compiled {
		if p[4] != '.' {
			t.Fatalf("pattern %d has non-empty center %q", i, p[4])
		}
	}
}

func TestEnclosingHaneMatch(t *testing.T) {
	// Black-white-black contact row: (1,1) is the enclosing hane point for
	// black and must not match far from the stones.
	b := mustParse(t, []string{
		"XOX..",
		".....",
		".....",
		".....",
		".....",
	})
	ps := DefaultPatterns()
	if !ps.matchesAt(b, 1, 1, game.Black) {
		t.Fatal("enclosing hane at (1,1) not matched for black")
	}
	if ps.matchesAt(b, 4, 4, game.Black) {
		t.Fatal("matched a pattern on an isolated empty corner")
	}
}

func TestPatternMatchingIsColorRelative(t *testing.T) {
	// Same shape with colors swapped must match for white instead.
	b := mustParse(t, []string{
		"OXO..",
		".....",
		".....",
		".....",
		".....",
	})
	ps := DefaultPatterns()
	if !ps.matchesAt(b, 1, 1, game.White) {
		t.Fatal("enclosing hane not matched for white on the mirrored colors")
	}
}

func TestPatternScoreZeroOnEmptyBoard(t *testing.T) {
	b := game.NewBoard(9)
	if got := DefaultPatterns().Score(b, game.Black); got != 0 {
		t.Fatalf("empty board pattern score = %v, want 0", got)
	}
}
