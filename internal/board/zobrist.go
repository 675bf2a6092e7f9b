package board

// Zobrist keys come from a fixed-seed xorshift64* stream so hashes are stable
// across runs and can be persisted.
var (
	zobristPiece     [PieceCodes][64]uint64 // row 0 (empty) stays zero
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

type xorshift struct {
	state uint64
}

func (x *xorshift) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := xorshift{state: 0x98F107A2BEEF1234}
	for p := WhitePawn; p <= BlackKing; p++ {
		for sq := range zobristPiece[p] {
			zobristPiece[p][sq] = rng.next()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	zobristSide = rng.next()
}

func castleKey(c CastleFlags) uint64 {
	return zobristCastle[c&AllCastleRights]
}

func enPassantKey(sq Square) uint64 {
	if sq == NoSquare {
		return 0
	}
	return zobristEnPassant[sq.File()]
}

// ComputeHash rebuilds the position key from scratch.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq, pc := range p.Board {
		h ^= zobristPiece[pc][sq]
	}
	if p.SideToMove == Black {
		h ^= zobristSide
	}
	return h ^ castleKey(p.Castle) ^ enPassantKey(p.EnPassant)
}

// ComputePawnKey rebuilds the pawn-only key from scratch.
func (p *Position) ComputePawnKey() uint64 {
	var h uint64
	for _, pc := range []Piece{WhitePawn, BlackPawn} {
		bb := p.BB[pc]
		for bb != 0 {
			h ^= zobristPiece[pc][bb.PopLSB()]
		}
	}
	return h
}
