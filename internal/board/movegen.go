package board

import (
	"fmt"
	"iter"
	"log"
	"strings"
)

// DebugMoveValidation makes the legal-move helpers check the position after
// every trial move. It is slow; tests and the perft command switch it on.
var DebugMoveValidation = false

// GenMode selects the part of the move set the generator produces.
type GenMode uint8

const (
	// GenAll produces captures (with every promotion and en passant), then
	// castling, then quiet moves.
	GenAll GenMode = iota
	// GenCaptures produces the capture section of GenAll.
	GenCaptures
	// GenQuiescence is GenCaptures with queen promotions only.
	GenQuiescence
)

// The rule set is written once against a sink. MoveList materializes it and
// Moves exposes it as a lazy sequence; a sink returning false stops the walk.

// GenerateMoves fills ml with the pseudo-legal moves of the given mode.
func (p *Position) GenerateMoves(mode GenMode, ml *MoveList) {
	ml.Clear()
	p.generate(mode, ml.push)
}

// Moves yields the same moves as GenerateMoves in the same order. The
// position must not change while the sequence is being consumed.
func (p *Position) Moves(mode GenMode) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		p.generate(mode, yield)
	}
}

func (p *Position) generate(mode GenMode, yield func(Move) bool) bool {
	if !p.genCaptures(mode == GenQuiescence, yield) {
		return false
	}
	if mode != GenAll {
		return true
	}
	return p.genCastles(yield) && p.genQuiets(yield)
}

func promotionRank(c Color) Bitboard {
	if c == White {
		return Rank8
	}
	return Rank1
}

func pawnStep(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// pawnMove emits a pawn move, expanded into promotions on the last rank.
func (p *Position) pawnMove(from, to Square, captured Piece, queenOnly bool, yield func(Move) bool) bool {
	us := p.SideToMove
	pawn := MakePiece(Pawn, us)
	if !promotionRank(us).Has(to) {
		return yield(NewMove(from, to, pawn, captured, NoPiece, NoModifier))
	}
	for pt := Queen; pt >= Knight; pt-- {
		if !yield(NewMove(from, to, pawn, captured, MakePiece(pt, us), NoModifier)) {
			return false
		}
		if queenOnly {
			break
		}
	}
	return true
}

func pieceTargets(pt PieceType, from Square, occ *Occupancy) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[from]
	case Bishop:
		return occ.BishopAttacks(from)
	case Rook:
		return occ.RookAttacks(from)
	case Queen:
		return occ.QueenAttacks(from)
	case King:
		return kingAttacks[from]
	}
	return 0
}

func (p *Position) genCaptures(queenOnly bool, yield func(Move) bool) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	enemies := p.Occupied(them)
	pawn := MakePiece(Pawn, us)
	occ := p.Occupancy()

	for pawns := p.BB[pawn]; pawns != 0; {
		from := pawns.PopLSB()
		for targets := pawnAttacks[us][from] & enemies; targets != 0; {
			to := targets.PopLSB()
			if !p.pawnMove(from, to, p.Board[to], queenOnly, yield) {
				return false
			}
		}
	}

	// Push promotions gain material too, so they travel with the captures.
	step := pawnStep(us)
	for pawns := p.BB[pawn] & promotionRank(us).Forward(them); pawns != 0; {
		from := pawns.PopLSB()
		to := Square(int(from) + step)
		if p.Board[to] == NoPiece && !p.pawnMove(from, to, NoPiece, queenOnly, yield) {
			return false
		}
	}

	if ep := p.EnPassant; ep != NoSquare {
		victim := MakePiece(Pawn, them)
		for pawns := pawnAttacks[them][ep] & p.BB[pawn]; pawns != 0; {
			if !yield(NewMove(pawns.PopLSB(), ep, pawn, victim, NoPiece, EnPassantCapture)) {
				return false
			}
		}
	}

	for pt := Knight; pt <= King; pt++ {
		pc := MakePiece(pt, us)
		for pieces := p.BB[pc]; pieces != 0; {
			from := pieces.PopLSB()
			for targets := pieceTargets(pt, from, &occ) & enemies; targets != 0; {
				to := targets.PopLSB()
				if !yield(NewMove(from, to, pc, p.Board[to], NoPiece, NoModifier)) {
					return false
				}
			}
		}
	}
	return true
}

// genCastles needs the right, an empty gap between king and rook, and a king
// path (origin included) that the opponent does not attack.
func (p *Position) genCastles(yield func(Move) bool) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	for side := range 2 {
		r := &castleRoutes[us][side]
		if p.Castle&r.right == 0 || p.BB[All]&r.mustBeEmpty != 0 {
			continue
		}
		if p.AttacksBy(them, r.kingPath[0]) || p.AttacksBy(them, r.kingPath[1]) || p.AttacksBy(them, r.kingPath[2]) {
			continue
		}
		mod := KingSideCastle + Modifier(side)
		if !yield(NewMove(r.kingFrom, r.kingTo, MakePiece(King, us), NoPiece, NoPiece, mod)) {
			return false
		}
	}
	return true
}

func (p *Position) genQuiets(yield func(Move) bool) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	empty := ^p.BB[All]
	pawn := MakePiece(Pawn, us)
	step := pawnStep(us)
	occ := p.Occupancy()

	single := (p.BB[pawn] &^ promotionRank(us).Forward(them)).Forward(us) & empty
	doubleFrom := Rank3
	if us == Black {
		doubleFrom = Rank6
	}
	double := (single & doubleFrom).Forward(us) & empty
	for single != 0 {
		to := single.PopLSB()
		if !yield(NewMove(Square(int(to)-step), to, pawn, NoPiece, NoPiece, NoModifier)) {
			return false
		}
	}
	for double != 0 {
		to := double.PopLSB()
		if !yield(NewMove(Square(int(to)-2*step), to, pawn, NoPiece, NoPiece, NoModifier)) {
			return false
		}
	}

	for pt := Knight; pt <= King; pt++ {
		pc := MakePiece(pt, us)
		for pieces := p.BB[pc]; pieces != 0; {
			from := pieces.PopLSB()
			for targets := pieceTargets(pt, from, &occ) & empty; targets != 0; {
				if !yield(NewMove(from, targets.PopLSB(), pc, NoPiece, NoPiece, NoModifier)) {
					return false
				}
			}
		}
	}
	return true
}

// GenerateLegalMoves fills ml with the fully legal moves: the evasion set
// when in check, otherwise the pseudo-legal set filtered by MakeMove.
func (p *Position) GenerateLegalMoves(ml *MoveList) {
	if p.InCheck(p.SideToMove) {
		p.GenerateEvasions(ml)
		return
	}
	var pseudo MoveList
	p.GenerateMoves(GenAll, &pseudo)
	ml.Clear()
	snap := *p
	for _, m := range pseudo.Slice() {
		legal := p.MakeMove(m) == Legal
		if DebugMoveValidation {
			if err := p.Validate(); err != nil {
				log.Printf("[board] %s after %s: %v", snap.ToFEN(), m, err)
			}
		}
		*p = snap
		if legal {
			ml.Add(m)
		}
	}
}

// LegalMoves returns the legal moves as a fresh slice.
func (p *Position) LegalMoves() []Move {
	var ml MoveList
	p.GenerateLegalMoves(&ml)
	return append([]Move(nil), ml.Slice()...)
}

// HasLegalMove reports whether the side to move can move at all. It stops
// at the first legal move.
func (p *Position) HasLegalMove() bool {
	if p.InCheck(p.SideToMove) {
		for range p.Evasions() {
			return true
		}
		return false
	}
	snap := *p
	for m := range p.Moves(GenAll) {
		legal := p.MakeMove(m) == Legal
		*p = snap
		if legal {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.SideToMove) && !p.HasLegalMove()
}

// IsStalemate reports whether the side to move has no move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.SideToMove) && !p.HasLegalMove()
}

// ParseMove finds the legal move written in coordinate form ("e2e4", "e7e8q").
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range p.LegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q in %s", ErrIllegalMove, s, p.ToFEN())
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	p.GenerateLegalMoves(&ml)
	if depth == 1 {
		return int64(ml.Len())
	}
	var nodes int64
	snap := *p
	for _, m := range ml.Slice() {
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		*p = snap
	}
	return nodes
}

// Divide returns the perft count below each root move.
func (p *Position) Divide(depth int) map[string]int64 {
	out := make(map[string]int64)
	var ml MoveList
	p.GenerateLegalMoves(&ml)
	snap := *p
	for _, m := range ml.Slice() {
		p.MakeMove(m)
		out[m.String()] = p.Perft(depth - 1)
		*p = snap
	}
	return out
}
