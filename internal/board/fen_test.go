package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range append(testFENs,
		"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 12 40",
	) {
		pos := mustFEN(t, fen)
		if got := pos.ToFEN(); got != fen {
			t.Errorf("ToFEN() = %q, want %q", got, fen)
		}
	}
}

func TestParseFENDropsDeadEnPassant(t *testing.T) {
	pos := mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant = %v, want none", pos.EnPassant)
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash out of date")
	}
}

func TestParseFENDefaults(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -")
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("clocks = %d %d", pos.HalfMoveClock, pos.FullMoveNumber)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"seven ranks", "8/8/8/8/8/8/4K2k w - - 0 1"},
		{"bad piece", "4k3/8/8/8/8/8/8/4K2X w - - 0 1"},
		{"long rank", "4k3/8/8/8/8/8/8/4K4 w - - 0 1"},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w KX - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", tc.fen, err)
			}
		})
	}
}

func TestParseMoveRejectsIllegal(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"e2e5", "e1e2", "zz", ""} {
		if _, err := pos.ParseMove(s); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrIllegalMove", s, err)
		}
	}
}
