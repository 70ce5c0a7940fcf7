package game

import "testing"

func TestCaptureSingleStone(t *testing.T) {
	// 4-stone surround on an empty 5x5 board captures exactly one stone.
	b, err := ParseBoard([]string{
		".....",
		"..X..",
		".XOX.",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	captured, _ := PlayMove(b, 2, 3, Black)
	if captured != 1 {
		t.Fatalf("captured = %d, want 1", captured)
	}
	if b.Stone(2, 2) != Empty {
		t.Error("captured point should be empty")
	}
	for _, g := range b.Groups() {
		if g.Color != Black {
			t.Errorf("unexpected surviving %v group", g.Color)
		}
	}
	checkInvariants(t, b)
}

func TestCaptureRemovesOnlyDeadGroup(t *testing.T) {
	// Two white groups border the capturing stone; only the dead one goes.
	b, err := ParseBoard([]string{
		".XO..",
		"XO...",
		".X...",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	captured, ko := PlayMove(b, 2, 1, Black)
	if captured != 1 {
		t.Fatalf("captured = %d, want 1", captured)
	}
	if b.Stone(1, 1) != Empty {
		t.Error("dead white stone not removed")
	}
	if b.Stone(2, 0) != White {
		t.Error("surviving white stone was removed")
	}
	if ko != NoKo {
		t.Errorf("ko = %d, want NoKo (capturing stone keeps 3 liberties)", ko)
	}
	checkInvariants(t, b)
}

func TestMultipleSimultaneousCaptures(t *testing.T) {
	b, err := ParseBoard([]string{
		".X.X.",
		"XO.OX",
		".X.X.",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Playing black at (2,1) leaves both white stones with zero liberties.
	captured, ko := PlayMove(b, 2, 1, Black)
	if captured != 2 {
		t.Fatalf("captured = %d, want 2", captured)
	}
	if ko != NoKo {
		t.Errorf("multi-capture must not set a ko point, got %d", ko)
	}
	checkInvariants(t, b)
}

func TestSuicideRejected(t *testing.T) {
	b, err := ParseBoard([]string{
		".X...",
		"X.X..",
		".X...",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := IsLegalMove(b, 1, 1, White, NoKo); got != Suicide {
		t.Errorf("IsLegalMove = %v, want Suicide", got)
	}
	// The same point is fine for black (fills own eye shape, but legal).
	if got := IsLegalMove(b, 1, 1, Black, NoKo); got != Legal {
		t.Errorf("IsLegalMove for black = %v, want Legal", got)
	}
}

func TestOccupiedRejected(t *testing.T) {
	b := NewBoard(5)
	b.Place(2, 2, Black)
	if got := IsLegalMove(b, 2, 2, White, NoKo); got != Occupied {
		t.Errorf("IsLegalMove = %v, want Occupied", got)
	}
}

func TestKoEnforcement(t *testing.T) {
	b, err := ParseBoard([]string{
		".XO..",
		"X.XO.",
		".XO..",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	// White recaptures the single black stone at (2,1) by playing (1,1).
	captured, ko := PlayMove(b, 1, 1, White)
	if captured != 1 {
		t.Fatalf("captured = %d, want 1", captured)
	}
	if ko != b.Index(2, 1) {
		t.Fatalf("ko = %d, want %d", ko, b.Index(2, 1))
	}

	// Immediate recapture at the ko point is forbidden...
	if got := IsLegalMove(b, 2, 1, Black, ko); got != KoViolation {
		t.Errorf("immediate recapture = %v, want KoViolation", got)
	}
	// ...but after a move elsewhere the point is legal again.
	_, ko2 := PlayMove(b, 4, 4, Black)
	if ko2 != NoKo {
		t.Fatalf("unexpected ko after outside move: %d", ko2)
	}
	if got := IsLegalMove(b, 2, 1, Black, ko2); got != Legal {
		t.Errorf("delayed recapture = %v, want Legal", got)
	}
}

func TestEyeDetection(t *testing.T) {
	b, err := ParseBoard([]string{
		".X...",
		"X.X..",
		".X...",
		".....",
		".....",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !IsEye(b, 1, 1, Black) {
		t.Error("(1,1) should be a black eye")
	}
	if IsEye(b, 1, 1, White) {
		t.Error("(1,1) must not be a white eye")
	}
	// Two enemy diagonal stones falsify the eye.
	b.Place(2, 0, White)
	b.Place(2, 2, White)
	if IsEye(b, 1, 1, Black) {
		t.Error("two enemy diagonals should falsify the eye")
	}
}

func TestCandidateMovesOnEmptyBoard(t *testing.T) {
	b := NewBoard(9)
	moves := CandidateMoves(b, Black, NoKo)
	if len(moves) != 81 {
		t.Errorf("candidates on empty 9x9 = %d, want 81", len(moves))
	}
}

func TestCandidateMovesNeverEmptyWhenLegalExists(t *testing.T) {
	// Every legal black move fills one of black's own corner eyes; the eye
	// filter must yield to the full legal set rather than force a pass.
	b, err := ParseBoard([]string{
		".X.",
		"XXX",
		".X.",
	})
	if err != nil {
		t.Fatal(err)
	}
	legal := LegalMoves(b, Black, NoKo)
	if len(legal) != 4 {
		t.Fatalf("legal moves = %d, want the 4 corners", len(legal))
	}
	moves := CandidateMoves(b, Black, NoKo)
	if len(moves) != 4 {
		t.Errorf("candidates = %d, want fallback to all 4 legal moves", len(moves))
	}
	// White has no legal move here at all: every corner is a suicide.
	if got := LegalMoves(b, White, NoKo); len(got) != 0 {
		t.Errorf("white legal moves = %d, want 0", len(got))
	}
}

func TestTerritoryAndScoring(t *testing.T) {
	b, err := ParseBoard([]string{
		".X.O.",
		".X.O.",
		".X.O.",
		".X.O.",
		".X.O.",
	})
	if err != nil {
		t.Fatal(err)
	}
	tb, tw := Territory(b)
	if tb != 5 || tw != 5 {
		t.Errorf("territory = (%d,%d), want (5,5)", tb, tw)
	}
	// Column 2 touches both colors: neutral.
	if got := StoneScore(b, 7.5); got != -7.5 {
		t.Errorf("StoneScore = %v, want -7.5", got)
	}
	if got := AreaScore(b, 7.5); got != -7.5 {
		t.Errorf("AreaScore = %v, want -7.5", got)
	}
}

func TestTerritoryEmptyBoardIsNeutral(t *testing.T) {
	b := NewBoard(9)
	tb, tw := Territory(b)
	if tb != 0 || tw != 0 {
		t.Errorf("empty board territory = (%d,%d), want (0,0)", tb, tw)
	}
}

func TestIllegalMoveError(t *testing.T) {
	err := &IllegalMoveError{Move: Move{X: 2, Y: 2, Color: White}, Status: Occupied}
	if err.Error() != "illegal move white (2,2): occupied" {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}
