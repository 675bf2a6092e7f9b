package engine

import (
	"testing"

	"github.com/hailam/rotorchess/internal/board"
)

var (
	moveA = board.NewMove(board.E2, board.E4, board.WhitePawn, board.NoPiece, board.NoPiece, board.NoModifier)
	moveB = board.NewMove(board.G1, board.F3, board.WhiteKnight, board.NoPiece, board.NoPiece, board.NoModifier)
	moveC = board.NewMove(board.D2, board.D4, board.WhitePawn, board.NoPiece, board.NoPiece, board.NoModifier)
)

func TestTTExactRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	const key = 0xDEADBEEF
	tt.Store(key, moveA, 123, 5, BoundExact, 3)

	for depth := 0; depth <= 5; depth++ {
		bound, score, move := tt.Probe(key, depth, -Infinity, Infinity, 3)
		if bound != BoundExact || score != 123 || move != moveA {
			t.Errorf("Probe(depth %d) = %v %d %v, want exact 123 %v", depth, bound, score, move, moveA)
		}
	}
	if bound, _, _ := tt.Probe(key, 6, -Infinity, Infinity, 3); bound != BoundJunk {
		t.Errorf("deeper probe = %v, want miss", bound)
	}
	if bound, _, _ := tt.Probe(key+1, 0, -Infinity, Infinity, 3); bound != BoundJunk {
		t.Errorf("other key = %v, want miss", bound)
	}
}

func TestTTMateScoresAreRelativeToNode(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(1, board.NoMove, MatedIn(7), 4, BoundExact, 4)
	tt.Store(2, moveA, -MatedIn(9), 4, BoundExact, 6)

	if _, score, _ := tt.Probe(1, 1, -Infinity, Infinity, 2); score != MatedIn(5) {
		t.Errorf("mated score at ply 2 = %d, want %d", score, MatedIn(5))
	}
	if _, score, _ := tt.Probe(2, 1, -Infinity, Infinity, 1); score != -MatedIn(4) {
		t.Errorf("mating score at ply 1 = %d, want %d", score, -MatedIn(4))
	}
}

func TestTTBoundsNeedTheWindow(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(10, moveA, 50, 3, BoundLower, 0)
	tt.Store(20, moveB, -50, 3, BoundUpper, 0)

	tests := []struct {
		name        string
		key         uint64
		alpha, beta int
		want        Bound
	}{
		{"lower above beta", 10, 0, 40, BoundLower},
		{"lower below beta", 10, 0, 60, BoundJunk},
		{"upper below alpha", 20, -40, 0, BoundUpper},
		{"upper above alpha", 20, -60, 0, BoundJunk},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, _, _ := tt.Probe(tc.key, 3, tc.alpha, tc.beta, 0); got != tc.want {
				t.Errorf("Probe = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTTReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	n := uint64(len(tt.deep))
	a, b, c := uint64(5), 5+n, 5+2*n

	tt.Store(a, moveA, 10, 6, BoundExact, 0)
	tt.Store(b, moveB, 20, 3, BoundExact, 0)
	if tt.deep[5].Key != a || tt.recent[5].Key != b {
		t.Fatalf("shallower entry should go to the always-replace slot")
	}
	if _, score, _ := tt.Probe(b, 3, -Infinity, Infinity, 0); score != 20 {
		t.Errorf("always-replace slot not probed")
	}

	tt.Store(c, moveC, 30, 8, BoundExact, 0)
	if tt.deep[5].Key != c || tt.recent[5].Key != a {
		t.Errorf("deeper entry should displace the old one into the always-replace slot")
	}
	if bound, _, _ := tt.Probe(b, 0, -Infinity, Infinity, 0); bound != BoundJunk {
		t.Errorf("b should have been pushed out")
	}

	// Equal depth: only an exact result takes the depth-preferred slot.
	tt.Store(b, moveB, 40, 8, BoundLower, 0)
	if tt.deep[5].Key != c {
		t.Errorf("equal-depth bound displaced an exact entry")
	}
	tt.Store(b, moveB, 40, 8, BoundExact, 0)
	if tt.deep[5].Key != b || tt.recent[5].Key != c {
		t.Errorf("equal-depth exact entry should win the slot")
	}
}

func TestTTTightenedBoundReplaces(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(7, moveA, 40, 4, BoundLower, 0)
	tt.Store(7, moveA, 60, 4, BoundLower, 0)
	if got := tt.deep[7].Score; got != 60 {
		t.Errorf("raised lower bound not kept: %d", got)
	}
	tt.Store(7, moveA, 30, 4, BoundLower, 0)
	if got := tt.deep[7].Score; got != 60 {
		t.Errorf("weaker lower bound replaced the stronger one: %d", got)
	}
	if bound, score, _ := tt.Probe(7, 4, 0, 55, 0); bound != BoundLower || score != 60 {
		t.Errorf("Probe = %v %d, want lower 60", bound, score)
	}
}

func TestTTMovelessStoreKeepsHint(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(9, moveA, 10, 4, BoundLower, 0)
	tt.Store(9, board.NoMove, 5, 4, BoundUpper, 0)
	if got := tt.BestMove(9); got != moveA {
		t.Errorf("BestMove = %v, want %v", got, moveA)
	}
}

func TestTTNewSearchMarksStale(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(3, moveA, 10, 9, BoundExact, 0)
	tt.NewSearch()

	if bound, _, _ := tt.Probe(3, 1, -Infinity, Infinity, 0); bound != BoundJunk {
		t.Errorf("stale entry was used: %v", bound)
	}
	if got := tt.BestMove(3); got != moveA {
		t.Errorf("stale entry should still order moves, BestMove = %v", got)
	}

	// A stale slot takes any new entry, however shallow.
	tt.Store(3, moveB, 20, 1, BoundUpper, 0)
	if tt.deep[3].Stale || tt.deep[3].Move != moveB {
		t.Errorf("stale slot not overwritten: %+v", tt.deep[3])
	}
}

func TestTTHashFull(t *testing.T) {
	tt := NewTranspositionTable(1)
	if got := tt.HashFull(); got != 0 {
		t.Errorf("HashFull() after Clear = %d", got)
	}
	for key := uint64(1); key <= 1000; key++ {
		tt.Store(key, moveA, 0, 1, BoundExact, 0)
	}
	if got := tt.HashFull(); got != 999 {
		t.Errorf("HashFull() = %d, want 999", got)
	}
	tt.NewSearch()
	if got := tt.HashFull(); got != 0 {
		t.Errorf("HashFull() after NewSearch = %d", got)
	}
}

func TestTTHitRate(t *testing.T) {
	tt := NewTranspositionTable(1)
	if got := tt.HitRate(); got != 0 {
		t.Errorf("HitRate() before any probe = %v, want 0", got)
	}
	tt.Store(7, moveA, 10, 3, BoundExact, 0)
	tt.Probe(7, 3, -Infinity, Infinity, 0)
	tt.Probe(8, 3, -Infinity, Infinity, 0)
	tt.Probe(7, 4, -Infinity, Infinity, 0)
	tt.Probe(7, 1, -Infinity, Infinity, 0)
	if got := tt.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}
	tt.Clear()
	if got := tt.HitRate(); got != 0 {
		t.Errorf("HitRate() after Clear = %v, want 0", got)
	}
}
