package board

import "github.com/hailam/rotorchess/internal/xmath"

// Sliding attacks come from rotated occupancy sets. Every line a slider can
// travel along (rank, file, a1-h8 diagonal, h1-a8 diagonal) is laid out as a
// contiguous run of bits in one of four composites, so the occupancy of the
// line through a square is a single shift and mask away. That byte indexes a
// table of precomputed attack sets.

type orientation uint8

const (
	orientRank     orientation = iota // identity
	orientFile                        // rotated 90
	orientDiag                        // rotated 45, a1-h8 direction
	orientAntiDiag                    // rotated 135, h1-a8 direction
	orientations
)

var (
	// rotated[o][sq] is the bit that stands for sq in composite o.
	rotated     [orientations][64]uint8
	lineShift   [orientations][64]uint8
	lineMask    [orientations][64]Bitboard
	lineAttacks [orientations][64][256]Bitboard
)

// lineOf returns the line through sq in orientation o and sq's place on it.
func lineOf(o orientation, sq Square) (id, pos int) {
	f, r := sq.File(), sq.Rank()
	switch o {
	case orientRank:
		return r, f
	case orientFile:
		return f, r
	case orientDiag:
		return f - r + 7, min(f, r)
	default:
		return f + r, f - max(0, f+r-7)
	}
}

func lineLen(o orientation, id int) int {
	if o == orientRank || o == orientFile {
		return 8
	}
	return 8 - xmath.Abs(id-7)
}

func initRotated() {
	for o := range orientations {
		var start [15]int
		for id := 1; id < len(start); id++ {
			start[id] = start[id-1] + lineLen(o, id-1)
		}

		var members [15][8]Square
		for sq := A1; sq <= H8; sq++ {
			id, pos := lineOf(o, sq)
			members[id][pos] = sq
			rotated[o][sq] = uint8(start[id] + pos)
			lineShift[o][sq] = uint8(start[id])
			lineMask[o][sq] = 1<<lineLen(o, id) - 1
		}

		for sq := A1; sq <= H8; sq++ {
			id, pos := lineOf(o, sq)
			n := lineLen(o, id)
			for occ := range 1 << n {
				var att Bitboard
				for i := pos + 1; i < n; i++ {
					att |= SquareBB(members[id][i])
					if occ&(1<<i) != 0 {
						break
					}
				}
				for i := pos - 1; i >= 0; i-- {
					att |= SquareBB(members[id][i])
					if occ&(1<<i) != 0 {
						break
					}
				}
				lineAttacks[o][sq][occ] = att
			}
		}
	}
}

// Occupancy is the set of occupied squares kept in all four orientations.
type Occupancy [orientations]Bitboard

// NewOccupancy rotates an arbitrary occupied set. Positions keep their
// composites up to date incrementally; this is for ad hoc sets.
func NewOccupancy(all Bitboard) Occupancy {
	var occ Occupancy
	for all != 0 {
		occ.Toggle(all.PopLSB())
	}
	return occ
}

// Toggle flips sq in every orientation.
func (occ *Occupancy) Toggle(sq Square) {
	for o := range orientations {
		occ[o] ^= 1 << rotated[o][sq]
	}
}

// Without returns a copy with the occupied square sq emptied.
func (occ Occupancy) Without(sq Square) Occupancy {
	if occ[orientRank].Has(sq) {
		occ.Toggle(sq)
	}
	return occ
}

// All returns the unrotated set.
func (occ *Occupancy) All() Bitboard {
	return occ[orientRank]
}

func (occ *Occupancy) line(o orientation, sq Square) Bitboard {
	return lineAttacks[o][sq][(occ[o]>>lineShift[o][sq])&lineMask[o][sq]]
}

// RookAttacks includes the first blocker in each direction.
func (occ *Occupancy) RookAttacks(sq Square) Bitboard {
	return occ.line(orientRank, sq) | occ.line(orientFile, sq)
}

// BishopAttacks includes the first blocker in each direction.
func (occ *Occupancy) BishopAttacks(sq Square) Bitboard {
	return occ.line(orientDiag, sq) | occ.line(orientAntiDiag, sq)
}

func (occ *Occupancy) QueenAttacks(sq Square) Bitboard {
	return occ.RookAttacks(sq) | occ.BishopAttacks(sq)
}

// RookAttacks computes rook attacks for an arbitrary occupied set.
func RookAttacks(sq Square, all Bitboard) Bitboard {
	occ := NewOccupancy(all)
	return occ.RookAttacks(sq)
}

// BishopAttacks computes bishop attacks for an arbitrary occupied set.
func BishopAttacks(sq Square, all Bitboard) Bitboard {
	occ := NewOccupancy(all)
	return occ.BishopAttacks(sq)
}

// QueenAttacks computes queen attacks for an arbitrary occupied set.
func QueenAttacks(sq Square, all Bitboard) Bitboard {
	occ := NewOccupancy(all)
	return occ.QueenAttacks(sq)
}
