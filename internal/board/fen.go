package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the initial array.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	// ErrInvalidFEN wraps every FEN parse failure.
	ErrInvalidFEN = errors.New("invalid FEN")
	// ErrIllegalMove is returned when a move string matches no legal move.
	ErrIllegalMove = errors.New("illegal move")
)

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN builds a position from Forsyth-Edwards notation. The clock
// fields are optional.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fenError("need at least 4 fields, got %d", len(fields))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("need 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank, file := 7-i, 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				pc := PieceFromChar(c)
				if pc == NoPiece {
					return nil, fenError("bad piece %q", c)
				}
				if file > 7 {
					return nil, fenError("rank %d overflows", rank+1)
				}
				if pc.Type() == Pawn && (rank == 0 || rank == 7) {
					return nil, fenError("pawn on rank %d", rank+1)
				}
				pos.place(pc, NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return nil, fenError("rank %d has %d squares", rank+1, file)
		}
	}
	if pos.BB[WhiteKing].PopCount() != 1 || pos.BB[BlackKing].PopCount() != 1 {
		return nil, fenError("each side needs exactly one king")
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fenError("bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			i := strings.IndexRune("KQkq", c)
			if i < 0 {
				return nil, fenError("bad castling field %q", fields[2])
			}
			pos.Castle |= 1 << i
		}
	}
	// Rights without the pieces on their home squares cannot be used.
	for c := White; c <= Black; c++ {
		for side := range 2 {
			r := castleRoutes[c][side]
			if pos.Board[r.kingFrom] != MakePiece(King, c) || pos.Board[r.rookFrom] != MakePiece(Rook, c) {
				pos.Castle &^= r.right
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("bad en passant square %q", fields[3])
		}
		pusher := pos.SideToMove.Other()
		if pawnAttacks[pusher][sq]&pos.BB[MakePiece(Pawn, pos.SideToMove)] != 0 && pos.Board[sq] == NoPiece {
			pos.EnPassant = sq
		}
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fenError("bad half-move clock %q", fields[4])
		}
		pos.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fenError("bad move number %q", fields[5])
		}
		pos.FullMoveNumber = n
	}

	pos.Hash = pos.ComputeHash()
	pos.updateStage()
	return pos, nil
}

// ToFEN writes the position back out in six-field form.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := range 8 {
			pc := p.Board[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.Castle, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
