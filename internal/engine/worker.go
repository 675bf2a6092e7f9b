package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/rotorchess/internal/board"
)

// Worker runs the node procedures of one search. It owns a working copy of
// the position and the per-ply scratch, and shares the transposition table
// and stop flag with its Engine.
type Worker struct {
	pos   board.Position
	plies [MaxPly + 1]plyContext

	tt   *TranspositionTable
	eval Evaluator
	opts Options
	stop *atomic.Bool

	nodes     uint64
	nodeLimit uint64
}

// NewWorker creates a worker searching with the given table and evaluator.
func NewWorker(tt *TranspositionTable, eval Evaluator, opts Options, stop *atomic.Bool) *Worker {
	return &Worker{tt: tt, eval: eval, opts: opts, stop: stop}
}

// Nodes returns the number of nodes visited since the last Reset.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// Reset prepares the worker for a search of pos. nodeLimit 0 means none.
func (w *Worker) Reset(pos *board.Position, nodeLimit uint64) {
	w.pos = pos.Snapshot()
	w.nodes = 0
	w.nodeLimit = nodeLimit
	for i := range w.plies {
		w.plies[i].clearKillers()
		w.plies[i].skipNull = false
		w.plies[i].pvLen = 0
	}
}

// stopped is polled once per sibling. Running out of nodes raises the
// shared flag so every caller unwinds the same way.
func (w *Worker) stopped() bool {
	if w.nodeLimit > 0 && w.nodes >= w.nodeLimit {
		w.stop.Store(true)
	}
	return w.stop.Load()
}

// PV returns the principal variation of the last root search.
func (w *Worker) PV() []board.Move {
	root := &w.plies[0]
	return append([]board.Move(nil), root.pv[:root.pvLen]...)
}

// updatePV makes m followed by the child's line the line of ply.
func (w *Worker) updatePV(ply int, m board.Move) {
	cur, next := &w.plies[ply], &w.plies[ply+1]
	cur.pv[ply] = m
	copy(cur.pv[ply+1:next.pvLen], next.pv[ply+1:next.pvLen])
	cur.pvLen = max(next.pvLen, ply+1)
}

// negamax returns the score of the position for the side to move. When
// the search is stopped it returns alpha and the caller must not trust it.
func (w *Worker) negamax(depth, ply int, alpha, beta int) int {
	w.nodes++
	cur := &w.plies[ply]
	cur.pvLen = ply

	if ply >= MaxPly-1 {
		return beta
	}

	key := w.pos.Hash
	if ply > 0 {
		bound, score, move := w.tt.Probe(key, depth, alpha, beta, ply)
		switch bound {
		case BoundExact:
			if move != board.NoMove {
				cur.pv[ply] = move
				cur.pvLen = ply + 1
			}
			return score
		case BoundLower, BoundUpper:
			return score
		}
	}

	if depth <= 0 {
		return w.quiescence(ply, alpha, beta)
	}

	us := w.pos.SideToMove
	inCheck := w.pos.InCheck(us)

	if w.nullAllowed(ply, inCheck) {
		if score, ok := w.nullMove(depth, ply, beta); ok {
			return score
		}
	}

	ml := &cur.moves
	if inCheck {
		w.pos.GenerateEvasions(ml)
		if ml.Len() == 0 {
			score := MatedIn(ply)
			w.tt.Store(key, board.NoMove, score, depth, BoundExact, ply)
			return score
		}
	} else {
		w.pos.GenerateMoves(board.GenAll, ml)
	}

	var killers []board.Move
	if w.opts.Killers {
		killers = cur.killers[:]
	}
	orderMoves(ml, w.tt.BestMove(key), killers)

	cur.snapshot = w.pos
	origAlpha := alpha
	legal := 0

	for _, m := range ml.Slice() {
		if w.stopped() {
			return alpha
		}
		if w.pos.MakeMove(m) == board.MustUndo {
			w.pos.Restore(&cur.snapshot)
			continue
		}
		legal++

		score := -w.negamax(depth-1, ply+1, -beta, -alpha)
		w.pos.Restore(&cur.snapshot)
		if w.stopped() {
			return alpha
		}

		if score >= beta {
			w.updatePV(ply, m)
			if w.opts.Killers && m.IsQuiet() {
				cur.addKiller(m)
			}
			w.tt.Store(key, m, score, depth, BoundLower, ply)
			return score
		}
		if score > alpha {
			alpha = score
			w.updatePV(ply, m)
		}
	}

	if legal == 0 {
		w.tt.Store(key, board.NoMove, DrawScore, depth, BoundExact, ply)
		return DrawScore
	}

	if alpha == origAlpha {
		w.tt.Store(key, board.NoMove, alpha, depth, BoundUpper, ply)
		return alpha
	}

	best := cur.pv[ply]
	if w.opts.Killers && best.IsQuiet() {
		cur.addKiller(best)
	}
	w.tt.Store(key, best, alpha, depth, BoundExact, ply)
	return alpha
}

// nullAllowed reports whether the node at ply may try a null move: never at
// the root, in check, straight after another null move, or when the side to
// move has only pawns left, where passing can be the best move.
func (w *Worker) nullAllowed(ply int, inCheck bool) bool {
	return w.opts.NullMove && ply > 0 && !inCheck && !w.plies[ply].skipNull &&
		w.pos.HasNonPawnMaterial(w.pos.SideToMove)
}

// nullMove lets the opponent move twice. When even that cannot bring the
// score below beta the node is cut without searching a move.
func (w *Worker) nullMove(depth, ply int, beta int) (int, bool) {
	cur, next := &w.plies[ply], &w.plies[ply+1]
	cur.snapshot = w.pos
	w.pos.MakeNullMove()
	next.skipNull = true

	var score int
	if d := nullMoveDepth(depth); d > 0 {
		score = -w.negamax(d, ply+1, -beta, 1-beta)
	} else {
		score = -w.quiescence(ply+1, -beta, 1-beta)
	}

	next.skipNull = false
	w.pos.Restore(&cur.snapshot)

	if w.stopped() || score < beta {
		return 0, false
	}
	w.tt.Store(w.pos.Hash, board.NoMove, score, depth, BoundLower, ply)
	return score, true
}

// nullMoveDepth reduces by four plies near the leaves and to the square
// root of the depth further up.
func nullMoveDepth(depth int) int {
	if depth <= 6 {
		return depth - 4
	}
	return int(math.Sqrt(float64(depth)))
}

// quiescence searches captures and queen promotions until the position is
// quiet. Nothing is stored in the transposition table.
func (w *Worker) quiescence(ply int, alpha, beta int) int {
	w.nodes++
	cur := &w.plies[ply]
	cur.pvLen = ply

	if ply >= MaxPly-1 {
		return beta
	}

	standPat := w.eval.Evaluate(&w.pos)
	if standPat >= beta {
		return beta
	}
	alpha = max(alpha, standPat)

	ml := &cur.moves
	w.pos.GenerateMoves(board.GenQuiescence, ml)
	cur.snapshot = w.pos

	for _, m := range ml.Slice() {
		if w.stopped() {
			return alpha
		}
		if futile(m, standPat, alpha) {
			continue
		}

		if w.pos.MakeMove(m) == board.MustUndo {
			w.pos.Restore(&cur.snapshot)
			continue
		}
		score := -w.quiescence(ply+1, -beta, -alpha)
		w.pos.Restore(&cur.snapshot)
		if w.stopped() {
			return alpha
		}

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			w.updatePV(ply, m)
		}
	}
	return alpha
}

// futile reports whether capture m cannot lift standPat to alpha even with
// a pawn to spare.
func futile(m board.Move, standPat, alpha int) bool {
	if !m.IsCapture() {
		return false
	}
	gain := m.Captured().Value() + PawnValue
	if m.IsPromotion() {
		gain += m.Promotion().Value()
	}
	return standPat+gain < alpha
}
