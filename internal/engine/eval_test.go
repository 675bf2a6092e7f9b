package engine

import (
	"strings"
	"testing"

	"github.com/hailam/rotorchess/internal/board"
)

// mirrorFEN swaps the colors and flips the board vertically.
func mirrorFEN(fen string) string {
	f := strings.Fields(fen)
	ranks := strings.Split(f[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	swap := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z':
				return r - 'a' + 'A'
			case r >= 'A' && r <= 'Z':
				return r - 'A' + 'a'
			}
			return r
		}, s)
	}
	f[0] = swap(strings.Join(ranks, "/"))
	if f[1] == "w" {
		f[1] = "b"
	} else {
		f[1] = "w"
	}
	if f[2] != "-" {
		f[2] = swap(f[2])
	}
	if f[3] != "-" {
		f[3] = f[3][:1] + string("9"[0]-f[3][1]+'0')
	}
	return strings.Join(f, " ")
}

func TestEvaluatorsAreColorSymmetric(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	evals := []struct {
		name string
		eval Evaluator
	}{
		{"material", MaterialEvaluator{}},
		{"classical", NewClassicalEvaluator(1)},
	}
	for _, ev := range evals {
		for _, fen := range fens {
			pos := mustFEN(t, fen)
			mirror := mustFEN(t, mirrorFEN(fen))
			if a, b := ev.eval.Evaluate(pos), ev.eval.Evaluate(mirror); a != b {
				t.Errorf("%s: %q scores %d, mirrored %d", ev.name, fen, a, b)
			}
		}
	}
}

func TestStartPositionIsLevel(t *testing.T) {
	pos := board.NewPosition()
	if got := NewClassicalEvaluator(1).Evaluate(pos); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestMaterialEvaluatorPerspective(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/1N2K3 b - - 0 1")
	if got := (MaterialEvaluator{}).Evaluate(pos); got != -KnightValue {
		t.Errorf("Evaluate = %d, want %d", got, -KnightValue)
	}
}

func TestPawnStructureTerms(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		mg, eg int
	}{
		{"isolated passer on the second rank", "4k3/8/8/8/8/8/P7/4K3 w - - 0 1",
			isolatedPawnMg + passedPawnMg[1], isolatedPawnEg + passedPawnEg[1]},
		{"blocked pawns are not passed", "4k3/8/8/p7/P7/8/8/4K3 w - - 0 1", 0, 0},
		{"doubled isolated pawns", "4k3/8/8/8/8/P7/P7/4K3 w - - 0 1",
			2*doubledPawnMg + 2*isolatedPawnMg + passedPawnMg[2], 2*doubledPawnEg + 2*isolatedPawnEg + passedPawnEg[2]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mg, eg := evaluatePawns(mustFEN(t, tc.fen))
			if mg != tc.mg || eg != tc.eg {
				t.Errorf("evaluatePawns = %d/%d, want %d/%d", mg, eg, tc.mg, tc.eg)
			}
		})
	}
}

func TestPawnHashTable(t *testing.T) {
	pt := NewPawnTable(1)
	pos := board.NewPosition()

	if _, _, found := pt.Probe(pos.PawnKey); found {
		t.Error("Expected cache miss on first probe")
	}
	pt.Store(pos.PawnKey, -15, -20)
	mg, eg, found := pt.Probe(pos.PawnKey)
	if !found || mg != -15 || eg != -20 {
		t.Errorf("Probe = %d %d %v, want -15 -20 true", mg, eg, found)
	}

	oldKey := pos.PawnKey
	snap := pos.Snapshot()
	m, err := pos.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when a pawn moves")
	}
	pos.Restore(&snap)
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored with the snapshot")
	}

	pt.Clear()
	if _, _, found := pt.Probe(oldKey); found {
		t.Error("Clear left an entry behind")
	}
}

func TestClassicalUsesPawnCache(t *testing.T) {
	ev := NewClassicalEvaluator(1)
	pos := mustFEN(t, "4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	first := ev.Evaluate(pos)
	if _, _, found := ev.pawns.Probe(pos.PawnKey); !found {
		t.Fatal("pawn terms were not cached")
	}
	if second := ev.Evaluate(pos); second != first {
		t.Errorf("cached evaluation %d differs from %d", second, first)
	}
}

func TestClassicalTaperFollowsGameStage(t *testing.T) {
	// Bare kings are an endgame, so only the endgame king table counts:
	// d4 is worth 40 and a8 costs 50.
	e := NewClassicalEvaluator(1)
	for _, tc := range []struct {
		fen  string
		want int
	}{
		{"k7/8/8/8/3K4/8/8/8 w - - 0 1", 90},
		{"k7/8/8/8/3K4/8/8/8 b - - 0 1", -90},
	} {
		pos := mustFEN(t, tc.fen)
		if pos.Stage != board.EndGame {
			t.Fatalf("%s: stage %v", tc.fen, pos.Stage)
		}
		if got := e.Evaluate(pos); got != tc.want {
			t.Errorf("Evaluate(%s) = %d, want %d", tc.fen, got, tc.want)
		}
	}

	for s := board.Opening; s < board.EndGame; s++ {
		if stagePhase[s] <= stagePhase[s+1] {
			t.Errorf("stage %v weighs the middlegame no more than %v", s, s+1)
		}
	}
}
