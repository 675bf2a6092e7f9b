package board

import "github.com/hailam/rotorchess/internal/xmath"

// Direction is one of the eight compass directions a ray can run.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	NoDirection
)

var dirStep = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 4) & 7
}

// Diagonal reports whether d is a bishop direction.
func (d Direction) Diagonal() bool {
	return d&1 == 1
}

// Increment is the square-index step of one move in direction d.
func (d Direction) Increment() int {
	return dirStep[d][0] + 8*dirStep[d][1]
}

var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	between   [64][64]Bitboard
	line      [64][64]Bitboard
	edgeRay   [8][64]Bitboard
	direction [64][64]Direction
	distance  [64][64]uint8
)

func init() {
	initLeapers()
	initRays()
	initRotated()
	initZobrist()
	initCastling()
}

func onBoard(f, r int) bool {
	return f >= 0 && f < 8 && r >= 0 && r < 8
}

func initLeapers() {
	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := A1; sq <= H8; sq++ {
		f, r := sq.File(), sq.Rank()
		for _, s := range knightSteps {
			if onBoard(f+s[0], r+s[1]) {
				knightAttacks[sq] |= SquareBB(NewSquare(f+s[0], r+s[1]))
			}
		}
		for _, s := range dirStep {
			if onBoard(f+s[0], r+s[1]) {
				kingAttacks[sq] |= SquareBB(NewSquare(f+s[0], r+s[1]))
			}
		}
		// The shift helpers mask off wraparound onto the opposite edge file.
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initRays() {
	for from := A1; from <= H8; from++ {
		for to := A1; to <= H8; to++ {
			direction[from][to] = NoDirection
			df, dr := to.File()-from.File(), to.Rank()-from.Rank()
			distance[from][to] = uint8(max(xmath.Abs(df), xmath.Abs(dr)))
		}

		f0, r0 := from.File(), from.Rank()
		for d := North; d < NoDirection; d++ {
			var ray Bitboard
			f, r := f0+dirStep[d][0], r0+dirStep[d][1]
			for onBoard(f, r) {
				to := NewSquare(f, r)
				between[from][to] = ray
				direction[from][to] = d
				ray |= SquareBB(to)
				f += dirStep[d][0]
				r += dirStep[d][1]
			}
			edgeRay[d][from] = ray
		}
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			if d := direction[a][b]; d != NoDirection {
				line[a][b] = edgeRay[d][a] | edgeRay[d.Opposite()][a] | SquareBB(a)
			}
		}
	}
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard   { return kingAttacks[sq] }

// PawnAttacks returns the squares a c pawn on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// Between returns the squares strictly between a and b, empty unless they
// share a rank, file or diagonal.
func Between(a, b Square) Bitboard {
	return between[a][b]
}

// Line returns the full board line through a and b, empty when unaligned.
func Line(a, b Square) Bitboard {
	return line[a][b]
}

// EdgeRay returns the squares from sq (exclusive) to the board edge.
func EdgeRay(d Direction, sq Square) Bitboard {
	return edgeRay[d][sq]
}

// DirectionOf returns the direction from a to b, or NoDirection.
func DirectionOf(a, b Square) Direction {
	return direction[a][b]
}

// firstOnRay returns the nearest square of occ on the ray from sq, or NoSquare.
func firstOnRay(d Direction, sq Square, occ Bitboard) Square {
	hits := edgeRay[d][sq] & occ
	if d.Increment() > 0 {
		return hits.LSB()
	}
	return hits.MSB()
}
