package board

import (
	"testing"

	"github.com/hailam/rotorchess/internal/xmath"
)

// slowSlider walks rays square by square, stopping at the first blocker.
func slowSlider(sq Square, occ Bitboard, dirs []Direction) Bitboard {
	var att Bitboard
	for _, d := range dirs {
		f, r := sq.File()+dirStep[d][0], sq.Rank()+dirStep[d][1]
		for onBoard(f, r) {
			to := NewSquare(f, r)
			att |= SquareBB(to)
			if occ.Has(to) {
				break
			}
			f += dirStep[d][0]
			r += dirStep[d][1]
		}
	}
	return att
}

var (
	rookDirs   = []Direction{North, East, South, West}
	bishopDirs = []Direction{NorthEast, SouthEast, SouthWest, NorthWest}
)

func TestRotatedLookupMatchesRayWalk(t *testing.T) {
	rng := xorshift{state: 0xC0FFEE}
	for range 500 {
		all := Bitboard(rng.next() & rng.next())
		occ := NewOccupancy(all)
		for sq := A1; sq <= H8; sq++ {
			if got, want := occ.RookAttacks(sq), slowSlider(sq, all, rookDirs); got != want {
				t.Fatalf("rook on %v, occupancy %016x:\ngot\n%vwant\n%v", sq, uint64(all), got, want)
			}
			if got, want := occ.BishopAttacks(sq), slowSlider(sq, all, bishopDirs); got != want {
				t.Fatalf("bishop on %v, occupancy %016x:\ngot\n%vwant\n%v", sq, uint64(all), got, want)
			}
		}
	}
}

func TestRotationsArePermutations(t *testing.T) {
	for o := range orientations {
		var seen Bitboard
		for sq := A1; sq <= H8; sq++ {
			seen |= 1 << rotated[o][sq]
		}
		if seen != ^Bitboard(0) {
			t.Errorf("orientation %d covers %016x", o, uint64(seen))
		}
	}
}

func TestOccupancyWithout(t *testing.T) {
	occ := NewOccupancy(SquareBB(E1) | SquareBB(E4))
	if occ.RookAttacks(E8).Has(E1) {
		t.Fatal("rook on e8 sees through e4")
	}
	lifted := occ.Without(E4)
	if !lifted.RookAttacks(E8).Has(E1) {
		t.Error("rook on e8 blocked after e4 was lifted")
	}
	if lifted.Without(E4) != lifted {
		t.Error("Without on an empty square changed the set")
	}
}

// Pawn attacks must never wrap from one edge file to the other.
func TestPawnAttacksDoNotWrap(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		for _, c := range []Color{White, Black} {
			att := PawnAttacks(sq, c)
			want := 2
			if sq.File() == 0 || sq.File() == 7 {
				want = 1
			}
			if (c == White && sq.Rank() == 7) || (c == Black && sq.Rank() == 0) {
				want = 0
			}
			if att.PopCount() != want {
				t.Errorf("%v pawn on %v attacks %d squares, want %d", c, sq, att.PopCount(), want)
			}
			for att != 0 {
				to := att.PopLSB()
				if xmath.Abs(to.File()-sq.File()) != 1 {
					t.Errorf("%v pawn on %v wraps to %v", c, sq, to)
				}
			}
		}
	}
}

func TestLeaperCounts(t *testing.T) {
	tests := []struct {
		sq           Square
		knight, king int
	}{
		{A1, 2, 3},
		{H8, 2, 3},
		{B1, 3, 5},
		{D4, 8, 8},
		{H4, 4, 5},
	}
	for _, tc := range tests {
		if got := KnightAttacks(tc.sq).PopCount(); got != tc.knight {
			t.Errorf("knight on %v: %d targets, want %d", tc.sq, got, tc.knight)
		}
		if got := KingAttacks(tc.sq).PopCount(); got != tc.king {
			t.Errorf("king on %v: %d targets, want %d", tc.sq, got, tc.king)
		}
	}
}

func TestRayTables(t *testing.T) {
	if got := Between(A1, H8); got != SquareBB(B2)|SquareBB(C3)|SquareBB(D4)|SquareBB(E5)|SquareBB(F6)|SquareBB(G7) {
		t.Errorf("Between(a1, h8) =\n%v", got)
	}
	if Between(A1, B3) != 0 || Line(A1, B3) != 0 {
		t.Error("unaligned squares have a line")
	}
	if got := Line(C1, C5); got != FileC {
		t.Errorf("Line(c1, c5) =\n%v", got)
	}
	if DirectionOf(E4, B1) != SouthWest || DirectionOf(E4, E8) != North || DirectionOf(E4, F6) != NoDirection {
		t.Error("DirectionOf gave the wrong direction")
	}
	if got := EdgeRay(East, E4); got != SquareBB(F4)|SquareBB(G4)|SquareBB(H4) {
		t.Errorf("EdgeRay(East, e4) =\n%v", got)
	}
	if Distance(A1, H8) != 7 || Distance(E4, F6) != 2 {
		t.Error("Distance wrong")
	}
	if sq := firstOnRay(West, H4, SquareBB(B4)|SquareBB(D4)); sq != D4 {
		t.Errorf("firstOnRay(West, h4) = %v, want d4", sq)
	}
}
