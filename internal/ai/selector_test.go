package ai

import "testing"

func TestForDifficultyMapping(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		difficulty string
		want       string
	}{
		{"random", "random"},
		{"pattern", "pattern"},
		{"medium", "minimax"},
		{"minimax", "minimax"},
		{"hard", "mcts"},
		{"mcts", "mcts"},
		{"", "greedy"},
		{"nonsense", "greedy"},
	}
	for _, tc := range cases {
		if got := ForDifficulty(tc.difficulty, opts).Name(); got != tc.want {
			t.Errorf("ForDifficulty(%q) = %q, want %q", tc.difficulty, got, tc.want)
		}
	}
}

func TestGuidedDifficultyNeedsAnOracle(t *testing.T) {
	opts := DefaultOptions()
	if got := ForDifficulty("impossible", opts).Name(); got != "mcts" {
		t.Fatalf("without an oracle, impossible = %q, want mcts fallback", got)
	}

	opts.Oracle = &stubOracle{}
	if got := ForDifficulty("impossible", opts).Name(); got != "guided" {
		t.Fatalf("with an oracle, impossible = %q, want guided", got)
	}
	if got := ForDifficulty("guided", opts).Name(); got != "guided" {
		t.Fatalf("guided alias = %q, want guided", got)
	}
}
