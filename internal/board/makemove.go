package board

import "github.com/hailam/rotorchess/internal/xmath"

// castleClear[sq] holds the rights lost when anything moves from or to sq.
var castleClear [64]CastleFlags

type castleRoute struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	right            CastleFlags
	mustBeEmpty      Bitboard
	kingPath         [3]Square // origin, crossing and destination
}

// castleRoutes is indexed by [Color][0 king side, 1 queen side].
var castleRoutes [2][2]castleRoute

func initCastling() {
	castleClear[A1] = WhiteQueenSide
	castleClear[H1] = WhiteKingSide
	castleClear[E1] = WhiteKingSide | WhiteQueenSide
	castleClear[A8] = BlackQueenSide
	castleClear[H8] = BlackKingSide
	castleClear[E8] = BlackKingSide | BlackQueenSide

	for c := White; c <= Black; c++ {
		back := Square(56 * int(c))
		ks, qs := WhiteKingSide, WhiteQueenSide
		if c == Black {
			ks, qs = BlackKingSide, BlackQueenSide
		}
		castleRoutes[c][0] = castleRoute{
			kingFrom: back + 4, kingTo: back + 6, rookFrom: back + 7, rookTo: back + 5,
			right:       ks,
			mustBeEmpty: SquareBB(back+5) | SquareBB(back+6),
			kingPath:    [3]Square{back + 4, back + 5, back + 6},
		}
		castleRoutes[c][1] = castleRoute{
			kingFrom: back + 4, kingTo: back + 2, rookFrom: back, rookTo: back + 3,
			right:       qs,
			mustBeEmpty: SquareBB(back+1) | SquareBB(back+2) | SquareBB(back+3),
			kingPath:    [3]Square{back + 4, back + 3, back + 2},
		}
	}
}

// MakeMove plays m in place. The move must be pseudo-legal for this
// position. When the result is MustUndo the mover's king is left attacked
// and the caller restores the snapshot it took before the call.
func (p *Position) MakeMove(m Move) MoveResult {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pc := m.Piece()

	p.Hash ^= castleKey(p.Castle) ^ enPassantKey(p.EnPassant)
	p.HalfMoveClock++

	switch m.Modifier() {
	case EnPassantCapture:
		victim := to - 8
		if us == Black {
			victim = to + 8
		}
		p.remove(victim)
	default:
		if m.IsCapture() {
			p.remove(to)
		}
	}
	p.shift(pc, from, to)

	if promo := m.Promotion(); promo != NoPiece {
		p.remove(to)
		p.place(promo, to)
	}

	switch m.Modifier() {
	case KingSideCastle, QueenSideCastle:
		route := castleRoutes[us][m.Modifier()-KingSideCastle]
		p.shift(p.Board[route.rookFrom], route.rookFrom, route.rookTo)
		if us == White {
			p.Castle |= WhiteCastled
		} else {
			p.Castle |= BlackCastled
		}
	}
	p.Castle &^= castleClear[from] | castleClear[to]

	p.EnPassant = NoSquare
	if pc.Type() == Pawn {
		p.HalfMoveClock = 0
		if xmath.Abs(int(to)-int(from)) == 16 {
			ep := (from + to) / 2
			// Only record a target someone can actually capture on, so that
			// transpositions with and without a dead target hash alike.
			if pawnAttacks[us][ep]&p.BB[MakePiece(Pawn, them)] != 0 {
				p.EnPassant = ep
			}
		}
	}
	if m.IsCapture() {
		p.HalfMoveClock = 0
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSide ^ castleKey(p.Castle) ^ enPassantKey(p.EnPassant)
	p.updateStage()

	if p.InCheck(us) {
		return MustUndo
	}
	return Legal
}

// MakeNullMove passes the turn. Undo it by restoring a snapshot.
func (p *Position) MakeNullMove() {
	p.Hash ^= enPassantKey(p.EnPassant) ^ zobristSide
	p.EnPassant = NoSquare
	p.SideToMove = p.SideToMove.Other()
}
