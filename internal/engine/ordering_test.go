package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/rotorchess/internal/board"
)

func TestAddKiller(t *testing.T) {
	var p plyContext
	moves := []board.Move{moveA, moveB, moveC}
	for _, m := range moves {
		p.addKiller(m)
	}
	want := [killerSlots]board.Move{moveC, moveB, moveA, board.NoMove}
	if diff := cmp.Diff(want, p.killers); diff != "" {
		t.Errorf("killers (-want +got):\n%s", diff)
	}

	// A repeated killer moves to the front without duplicating.
	p.addKiller(moveA)
	want = [killerSlots]board.Move{moveA, moveC, moveB, board.NoMove}
	if diff := cmp.Diff(want, p.killers); diff != "" {
		t.Errorf("after repeat (-want +got):\n%s", diff)
	}

	extra := board.NewMove(board.B1, board.C3, board.WhiteKnight, board.NoPiece, board.NoPiece, board.NoModifier)
	more := board.NewMove(board.H2, board.H3, board.WhitePawn, board.NoPiece, board.NoPiece, board.NoModifier)
	p.addKiller(extra)
	p.addKiller(more)
	want = [killerSlots]board.Move{more, extra, moveA, moveC}
	if diff := cmp.Diff(want, p.killers); diff != "" {
		t.Errorf("oldest killer should drop out (-want +got):\n%s", diff)
	}
}

func TestOrderMoves(t *testing.T) {
	pos := board.NewPosition()
	var ml board.MoveList
	pos.GenerateMoves(board.GenAll, &ml)
	generated := append([]board.Move(nil), ml.Slice()...)

	hash, _ := pos.ParseMove("d2d4")
	k1, _ := pos.ParseMove("g1f3")
	k2, _ := pos.ParseMove("e2e4")
	foreign := board.NewMove(board.E7, board.E5, board.BlackPawn, board.NoPiece, board.NoPiece, board.NoModifier)

	orderMoves(&ml, hash, []board.Move{k1, foreign, k2, hash})

	got := ml.Slice()
	if diff := cmp.Diff([]board.Move{hash, k1, k2}, got[:3]); diff != "" {
		t.Errorf("front of list (-want +got):\n%s", diff)
	}
	if ml.Len() != len(generated) {
		t.Fatalf("ordering changed the move count: %d, want %d", ml.Len(), len(generated))
	}

	var rest []board.Move
	for _, m := range generated {
		if m != hash && m != k1 && m != k2 {
			rest = append(rest, m)
		}
	}
	if diff := cmp.Diff(rest, got[3:]); diff != "" {
		t.Errorf("remaining moves lost generator order (-want +got):\n%s", diff)
	}
}
