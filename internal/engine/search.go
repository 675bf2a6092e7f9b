package engine

import "github.com/hailam/rotorchess/internal/board"

// Strategy selects the root driver of each iteration.
type Strategy uint8

const (
	// AlphaBeta runs one full-window negamax per iteration.
	AlphaBeta Strategy = iota
	// MTDF converges on the score with null-window probes.
	MTDF
)

func (s Strategy) String() string {
	if s == MTDF {
		return "mtdf"
	}
	return "alphabeta"
}

// ParseStrategy accepts the names printed by String.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "alphabeta", "ab":
		return AlphaBeta, true
	case "mtdf":
		return MTDF, true
	}
	return AlphaBeta, false
}

// SearchRoot searches the worker's position to depth and returns the score.
// guess seeds MTD(f) and is ignored by AlphaBeta.
func (w *Worker) SearchRoot(strategy Strategy, depth, guess int) int {
	var score int
	if strategy == MTDF {
		score = w.mtdf(depth, guess)
	} else {
		score = w.negamax(depth, 0, -Infinity, Infinity)
	}
	if !w.stopped() {
		w.extendPV(depth)
	}
	return score
}

func (w *Worker) mtdf(depth, guess int) int {
	lower, upper := -Infinity, Infinity
	g := guess
	failedLow := false
	for lower < upper {
		beta := g
		if g == lower {
			beta = g + 1
		}
		g = w.negamax(depth, 0, beta-1, beta)
		if w.stopped() {
			return g
		}
		if g < beta {
			upper = g
			failedLow = true
		} else {
			lower = g
			failedLow = false
		}
	}
	// A final fail-low leaves the root line empty; the best move is the one
	// that produced the lower bound, and the table still has it.
	if failedLow {
		w.plies[0].pvLen = 0
	}
	return g
}

// extendPV completes the root line from the table, up to limit moves. Cut
// nodes inside the tree and table hits leave the line short. Where a node
// kept no move, as the all-nodes of a null-window search do, the move whose
// child entry is best for the mover is taken. The walk ends on a repeated
// position and where the table knows nothing.
func (w *Worker) extendPV(limit int) {
	root := &w.plies[0]
	limit = min(limit, MaxPly)
	snap := w.pos
	defer func() { w.pos = snap }()

	seen := make(map[uint64]bool, limit)
	var ml board.MoveList
	for i := range root.pvLen {
		seen[w.pos.Hash] = true
		w.pos.GenerateLegalMoves(&ml)
		if !ml.Contains(root.pv[i]) {
			root.pvLen = i
			break
		}
		w.pos.MakeMove(root.pv[i])
	}

	for root.pvLen < limit && !seen[w.pos.Hash] {
		seen[w.pos.Hash] = true
		w.pos.GenerateLegalMoves(&ml)
		m := w.tt.BestMove(w.pos.Hash)
		if !ml.Contains(m) {
			m = w.bestChild(&ml, root.pvLen+1)
		}
		if m == board.NoMove {
			break
		}
		w.pos.MakeMove(m)
		root.pv[root.pvLen] = m
		root.pvLen++
	}
}

// bestChild returns the move of ml leading to the position whose stored
// score is best for the side making the move, or NoMove when none of them
// is stored. ply is the distance of those positions from the root.
func (w *Worker) bestChild(ml *board.MoveList, ply int) board.Move {
	best, bestScore := board.NoMove, -Infinity-1
	snap := w.pos
	for _, m := range ml.Slice() {
		w.pos.MakeMove(m)
		e, ok := w.tt.entry(w.pos.Hash)
		w.pos = snap
		if !ok || e.Bound == BoundJunk {
			continue
		}
		if s := -AdjustScoreFromTT(int(e.Score), ply); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

// SeedPV stores the line as junk entries so the next iteration tries it
// first even where deeper entries have pushed the real results out.
func (w *Worker) SeedPV(pv []board.Move, depth int) {
	snap := w.pos
	for ply, m := range pv {
		w.tt.Store(w.pos.Hash, m, 0, depth-ply, BoundJunk, ply)
		if w.pos.MakeMove(m) != board.Legal {
			break
		}
	}
	w.pos = snap
}
