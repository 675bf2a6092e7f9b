package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Letter returns the upper-case algebraic letter ("P" for pawns).
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return '?'
	}
	return "PNBRQK"[pt]
}

// IsSlider reports whether the piece moves along rays.
func (pt PieceType) IsSlider() bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

// Piece is an occupant code: 0 is an empty square, 1-6 are the white pawn,
// knight, bishop, rook, queen and king, 7-12 the black ones in the same order.
type Piece uint8

const (
	NoPiece Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// PieceCodes is the number of occupant codes including NoPiece.
const PieceCodes = 13

// MakePiece combines a type and a color.
func MakePiece(pt PieceType, c Color) Piece {
	return Piece(1 + uint8(pt) + 6*uint8(c))
}

// Type returns NoPieceType for an empty square.
func (p Piece) Type() PieceType {
	if p == NoPiece || p > BlackKing {
		return NoPieceType
	}
	return PieceType((p - 1) % 6)
}

// Color is only meaningful for a non-empty code.
func (p Piece) Color() Color {
	if p >= BlackPawn {
		return Black
	}
	return White
}

// Value is the material worth of the piece in centipawns; kings and empty
// squares are worth nothing.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}

// PieceValue is indexed by PieceType.
var PieceValue = [NoPieceType + 1]int{100, 300, 300, 500, 900, 0, 0}

const pieceChars = ".PNBRQKpnbrqk"

// String returns the FEN letter, '.' for an empty square.
func (p Piece) String() string {
	if p > BlackKing {
		return "?"
	}
	return pieceChars[p : p+1]
}

// PieceFromChar parses a FEN letter.
func PieceFromChar(c byte) Piece {
	for i := 1; i < len(pieceChars); i++ {
		if pieceChars[i] == c {
			return Piece(i)
		}
	}
	return NoPiece
}
