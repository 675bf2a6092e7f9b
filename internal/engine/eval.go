// Package engine implements the game tree search: the transposition table,
// the negamax and MTD(f) drivers, and the static evaluators they call.
package engine

import (
	"github.com/hailam/rotorchess/internal/board"
)

// Evaluator scores a quiet position in centipawns from the point of view
// of the side to move. Implementations may keep caches, so an Evaluator
// belongs to one Engine at a time.
type Evaluator interface {
	Evaluate(pos *board.Position) int
}

// Material values shared by the evaluators and quiescence delta pruning.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
)

// MaterialEvaluator counts material only.
type MaterialEvaluator struct{}

// Evaluate implements Evaluator.
func (MaterialEvaluator) Evaluate(pos *board.Position) int {
	score := pos.Material()
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// Bishop pair and rook file bonuses
const (
	bishopPairMg = 25
	bishopPairEg = 50

	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
)

// Pawn structure terms
const (
	doubledPawnMg  = -15
	doubledPawnEg  = -20
	isolatedPawnMg = -15
	isolatedPawnEg = -20
)

// Passed pawn bonus by relative rank.
var passedPawnMg = [8]int{0, 5, 10, 15, 25, 40, 60, 0}
var passedPawnEg = [8]int{0, 10, 20, 35, 60, 100, 150, 0}

// Share of the middlegame tables per game stage, out of maxPhase. The rest
// comes from the endgame tables.
const maxPhase = 24

var stagePhase = [...]int{
	board.Opening:     24,
	board.EarlyMiddle: 16,
	board.LateMiddle:  8,
	board.EndGame:     0,
}

// Piece-square tables are written from White's side with rank 8 on the
// first row, so a white piece on sq reads entry sq.Mirror() and a black
// piece reads entry sq.

var pawnMgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	40, 40, 40, 45, 45, 40, 40, 40,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	70, 70, 70, 70, 70, 70, 70, 70,
	40, 40, 40, 40, 40, 40, 40, 40,
	20, 20, 20, 20, 20, 20, 20, 20,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMgPST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEgPST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Middlegame and endgame tables per piece type. Only pawns and kings
// change character between the two.
var (
	mgPST = [board.NoPieceType]*[64]int{&pawnMgPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingMgPST}
	egPST = [board.NoPieceType]*[64]int{&pawnEgPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingEgPST}
)

// ClassicalEvaluator adds piece-square tables interpolated by game stage,
// pawn structure, the bishop pair and rook files to material.
type ClassicalEvaluator struct {
	pawns *PawnTable
}

// NewClassicalEvaluator creates an evaluator with a pawn table of
// pawnMB megabytes.
func NewClassicalEvaluator(pawnMB int) *ClassicalEvaluator {
	return &ClassicalEvaluator{pawns: NewPawnTable(pawnMB)}
}

// Evaluate implements Evaluator.
func (e *ClassicalEvaluator) Evaluate(pos *board.Position) int {
	var mg, eg int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces(pt, c)
			for bb != 0 {
				sq := bb.PopLSB()
				idx := sq
				if c == board.White {
					idx = sq.Mirror()
				}
				v := board.PieceValue[pt]
				mg += sign * (v + mgPST[pt][idx])
				eg += sign * (v + egPST[pt][idx])
			}
		}

		if pos.Pieces(board.Bishop, c).PopCount() >= 2 {
			mg += sign * bishopPairMg
			eg += sign * bishopPairEg
		}
		rmg, reg := rookFiles(pos, c)
		mg += sign * rmg
		eg += sign * reg
	}

	pmg, peg := e.pawnStructure(pos)
	mg += pmg
	eg += peg

	phase := stagePhase[pos.Stage]
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

func rookFiles(pos *board.Position, c board.Color) (mg, eg int) {
	own := pos.Pieces(board.Pawn, c)
	enemy := pos.Pieces(board.Pawn, c.Other())
	rooks := pos.Pieces(board.Rook, c)
	for rooks != 0 {
		file := board.FileMask[rooks.PopLSB().File()]
		switch {
		case own&file != 0:
		case enemy&file == 0:
			mg += rookOpenFileMg
			eg += rookOpenFileEg
		default:
			mg += rookSemiOpenFileMg
			eg += rookSemiOpenFileEg
		}
	}
	return mg, eg
}

func (e *ClassicalEvaluator) pawnStructure(pos *board.Position) (mg, eg int) {
	if e.pawns != nil {
		if mg, eg, ok := e.pawns.Probe(pos.PawnKey); ok {
			return mg, eg
		}
	}
	mg, eg = evaluatePawns(pos)
	if e.pawns != nil {
		e.pawns.Store(pos.PawnKey, mg, eg)
	}
	return mg, eg
}

// evaluatePawns scores doubled, isolated and passed pawns, White minus Black.
func evaluatePawns(pos *board.Position) (mg, eg int) {
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := pos.Pieces(board.Pawn, c)
		enemy := pos.Pieces(board.Pawn, c.Other())

		for bb := own; bb != 0; {
			sq := bb.PopLSB()
			file := sq.File()

			if (own & board.FileMask[file]).PopCount() > 1 {
				mg += sign * doubledPawnMg
				eg += sign * doubledPawnEg
			}
			if own&adjacentFiles[file] == 0 {
				mg += sign * isolatedPawnMg
				eg += sign * isolatedPawnEg
			}
			if enemy&passedMask[c][sq] == 0 && own&frontSpan[c][sq] == 0 {
				r := sq.RelativeRank(c)
				mg += sign * passedPawnMg[r]
				eg += sign * passedPawnEg[r]
			}
		}
	}
	return mg, eg
}

var (
	adjacentFiles [8]board.Bitboard
	frontSpan     [2][64]board.Bitboard // squares ahead on the same file
	passedMask    [2][64]board.Bitboard // squares ahead on the same and adjacent files
)

func init() {
	for f := range 8 {
		if f > 0 {
			adjacentFiles[f] |= board.FileMask[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= board.FileMask[f+1]
		}
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		var above, below board.Bitboard
		for r := range 8 {
			switch {
			case r > sq.Rank():
				above |= board.RankMask[r]
			case r < sq.Rank():
				below |= board.RankMask[r]
			}
		}
		files := board.FileMask[sq.File()]
		frontSpan[board.White][sq] = above & files
		frontSpan[board.Black][sq] = below & files
		passedMask[board.White][sq] = above & (files | adjacentFiles[sq.File()])
		passedMask[board.Black][sq] = below & (files | adjacentFiles[sq.File()])
	}
}
