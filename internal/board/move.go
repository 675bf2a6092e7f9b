package board

// Move packs everything needed to apply and describe a move:
//
//	bits  0-5   origin square
//	bits  6-11  destination square
//	bits 12-15  moving piece code
//	bits 16-19  captured piece code (0 if none)
//	bits 20-23  promotion piece code (0 if none)
//	bits 24-25  modifier
//
// Two moves are equal exactly when their packed values are.
type Move uint32

// Modifier marks the moves whose side effects go beyond origin and destination.
type Modifier uint8

const (
	NoModifier Modifier = iota
	KingSideCastle
	QueenSideCastle
	EnPassantCapture
)

// NoMove is the zero move; it never comes out of the generator.
const NoMove Move = 0

// NewMove packs a move. captured and promotion are NoPiece when absent.
func NewMove(from, to Square, piece, captured, promotion Piece, mod Modifier) Move {
	return Move(from) | Move(to)<<6 | Move(piece)<<12 | Move(captured)<<16 |
		Move(promotion)<<20 | Move(mod)<<24
}

func (m Move) From() Square         { return Square(m & 0x3F) }
func (m Move) To() Square           { return Square(m >> 6 & 0x3F) }
func (m Move) Piece() Piece         { return Piece(m >> 12 & 0xF) }
func (m Move) Captured() Piece      { return Piece(m >> 16 & 0xF) }
func (m Move) Promotion() Piece     { return Piece(m >> 20 & 0xF) }
func (m Move) Modifier() Modifier   { return Modifier(m >> 24 & 0x3) }
func (m Move) IsCapture() bool      { return m.Captured() != NoPiece }
func (m Move) IsPromotion() bool    { return m.Promotion() != NoPiece }
func (m Move) IsEnPassant() bool    { return m.Modifier() == EnPassantCapture }
func (m Move) IsCastle() bool       { return m.Modifier() == KingSideCastle || m.Modifier() == QueenSideCastle }
func (m Move) IsQuiet() bool        { return !m.IsCapture() && !m.IsPromotion() }
func (m Move) Color() Color         { return m.Piece().Color() }
func (m Move) PieceType() PieceType { return m.Piece().Type() }

// String returns the coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("pnbrqk"[m.Promotion().Type()])
	}
	return s
}

// MoveResult tells the caller of MakeMove whether the move may stand.
type MoveResult uint8

const (
	// Legal means the mover's king is safe after the move.
	Legal MoveResult = iota
	// MustUndo means the move left the mover in check; restore the snapshot.
	MustUndo
)

func (r MoveResult) String() string {
	if r == Legal {
		return "Legal"
	}
	return "MustUndo"
}
