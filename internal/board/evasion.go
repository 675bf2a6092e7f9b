package board

import "iter"

// GenerateEvasions fills ml with every legal reply to check. The side to
// move must be in check.
//
// The king may step to any square the opponent would not attack once the
// king has left its square. Against a double check that is all. Against a
// single checker, any other piece may capture it, and a sliding checker may
// also be blocked on the squares between it and the king. Captures and
// blocks are kept only if they do not open a line onto the king.
func (p *Position) GenerateEvasions(ml *MoveList) {
	ml.Clear()
	p.generateEvasions(ml.push)
}

// Evasions is the lazy form of GenerateEvasions.
func (p *Position) Evasions() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		p.generateEvasions(yield)
	}
}

func (p *Position) generateEvasions(yield func(Move) bool) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	ksq := p.KingSquare[us]
	king := MakePiece(King, us)

	for targets := kingAttacks[ksq] &^ p.Occupied(us); targets != 0; {
		to := targets.PopLSB()
		if p.AttacksByKingRemoved(them, to) {
			continue
		}
		if !yield(NewMove(ksq, to, king, p.Board[to], NoPiece, NoModifier)) {
			return false
		}
	}

	checkers := p.AttackersOf(them, ksq)
	if checkers.PopCount() != 1 {
		return true
	}
	csq := checkers.LSB()
	checker := p.Board[csq]

	for defenders := p.NonKingAttackersOf(us, csq); defenders != 0; {
		from := defenders.PopLSB()
		if p.exposesCheck(from, csq) {
			continue
		}
		pc := p.Board[from]
		if pc.Type() == Pawn {
			if !p.pawnMove(from, csq, checker, false, yield) {
				return false
			}
			continue
		}
		if !yield(NewMove(from, csq, pc, checker, NoPiece, NoModifier)) {
			return false
		}
	}

	// A checking pawn that just advanced two squares can be taken en passant.
	// The capture empties two squares of one rank, which the line test above
	// does not model, so each candidate is tried on the board.
	if ep := p.EnPassant; ep != NoSquare && checker.Type() == Pawn && int(ep)-pawnStep(us) == int(csq) {
		pawn := MakePiece(Pawn, us)
		for pawns := pawnAttacks[them][ep] & p.BB[pawn]; pawns != 0; {
			m := NewMove(pawns.PopLSB(), ep, pawn, checker, NoPiece, EnPassantCapture)
			snap := *p
			legal := p.MakeMove(m) == Legal
			*p = snap
			if legal && !yield(m) {
				return false
			}
		}
	}

	if !checker.Type().IsSlider() {
		return true
	}

	pawn := MakePiece(Pawn, us)
	step := pawnStep(us)
	for gaps := between[ksq][csq]; gaps != 0; {
		to := gaps.PopLSB()
		for blockers := p.NonKingNonPawnAttackersOf(us, to); blockers != 0; {
			from := blockers.PopLSB()
			if p.exposesCheck(from, to) {
				continue
			}
			if !yield(NewMove(from, to, p.Board[from], NoPiece, NoPiece, NoModifier)) {
				return false
			}
		}

		from := int(to) - step
		if from < 0 || from > 63 {
			continue
		}
		switch p.Board[from] {
		case pawn:
			if !p.exposesCheck(Square(from), to) && !p.pawnMove(Square(from), to, NoPiece, false, yield) {
				return false
			}
		case NoPiece:
			from -= step
			if to.RelativeRank(us) == 3 && p.Board[from] == pawn && !p.exposesCheck(Square(from), to) {
				if !yield(NewMove(Square(from), to, pawn, NoPiece, NoPiece, NoModifier)) {
					return false
				}
			}
		}
	}
	return true
}

// exposesCheck reports whether moving the piece on from to to would open a
// line from an enemy slider onto the mover's king.
func (p *Position) exposesCheck(from, to Square) bool {
	us := p.Board[from].Color()
	ksq := p.KingSquare[us]
	d := direction[ksq][from]
	if d == NoDirection || line[ksq][from].Has(to) || between[ksq][from]&p.BB[All] != 0 {
		return false
	}
	sq := firstOnRay(d, from, p.BB[All])
	if sq == NoSquare {
		return false
	}
	pc := p.Board[sq]
	if pc.Color() == us {
		return false
	}
	switch pc.Type() {
	case Queen:
		return true
	case Bishop:
		return d.Diagonal()
	case Rook:
		return !d.Diagonal()
	}
	return false
}
