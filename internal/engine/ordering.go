package engine

import "github.com/hailam/rotorchess/internal/board"

// orderMoves lifts the hash move and the killers to the front of ml. The
// generator already lists captures before quiet moves, and the rest keeps
// that order. Moves that are not in the list are ignored, so stale hints
// from another position cannot be played.
func orderMoves(ml *board.MoveList, hashMove board.Move, killers []board.Move) {
	front := 0
	lift := func(m board.Move) {
		if m == board.NoMove {
			return
		}
		if i := ml.IndexOf(m); i >= front {
			ml.MoveToFront(i, front)
			front++
		}
	}
	lift(hashMove)
	for _, k := range killers {
		lift(k)
	}
}
