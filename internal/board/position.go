package board

import (
	"fmt"
	"strings"
)

// Composite bitboard slots that follow the twelve piece codes in Position.BB.
const (
	All Piece = iota + BlackKing + 1
	AllWhite
	AllBlack
	AllRotated45
	AllRotated90
	AllRotated135
	BitboardCount
)

// CastleFlags holds the four castling rights and whether each side has
// already castled.
type CastleFlags uint8

const (
	WhiteKingSide CastleFlags = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
	WhiteCastled
	BlackCastled

	AllCastleRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

func (c CastleFlags) String() string {
	if c&AllCastleRights == 0 {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if c&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// HasCastled reports whether side c has castled this game.
func (c CastleFlags) HasCastled(side Color) bool {
	if side == White {
		return c&WhiteCastled != 0
	}
	return c&BlackCastled != 0
}

// GameStage buckets a position by remaining material.
type GameStage uint8

const (
	Opening GameStage = iota
	EarlyMiddle
	LateMiddle
	EndGame
)

func (g GameStage) String() string {
	return [...]string{"Opening", "EarlyMiddle", "LateMiddle", "EndGame"}[g]
}

func stageFor(pawns, pieces int) GameStage {
	switch {
	case pawns >= 14 && pieces >= 12:
		return Opening
	case pawns >= 8 && pieces >= 7:
		return EarlyMiddle
	case pawns >= 6 && pieces >= 5:
		return LateMiddle
	}
	return EndGame
}

// Position is a complete game state. It is a plain value: assigning it to
// another variable takes a full snapshot, which is how moves are undone.
type Position struct {
	Board [64]Piece
	BB    [BitboardCount]Bitboard

	SideToMove     Color
	Castle         CastleFlags
	EnPassant      Square // target square, NoSquare unless a capture is possible
	HalfMoveClock  int
	FullMoveNumber int

	Hash    uint64
	PawnKey uint64

	KingSquare [2]Square
	PawnCount  int // pawns of both sides
	PieceCount int // knights, bishops, rooks and queens of both sides
	Stage      GameStage
}

// NewPosition returns the initial array.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Snapshot returns a copy to Restore from later.
func (p *Position) Snapshot() Position {
	return *p
}

// Restore overwrites p with a snapshot.
func (p *Position) Restore(s *Position) {
	*p = *s
}

func colorSlot(c Color) Piece {
	return AllWhite + Piece(c)
}

// Pieces returns the set of c's pieces of type pt.
func (p *Position) Pieces(pt PieceType, c Color) Bitboard {
	return p.BB[MakePiece(pt, c)]
}

// Occupied returns every square holding a c piece.
func (p *Position) Occupied(c Color) Bitboard {
	return p.BB[colorSlot(c)]
}

// Occupancy returns the rotated occupied sets.
func (p *Position) Occupancy() Occupancy {
	return Occupancy{p.BB[All], p.BB[AllRotated90], p.BB[AllRotated45], p.BB[AllRotated135]}
}

// toggle flips pc on sq in the occupant array, every bitboard and both keys.
// Adding and removing are the same operation; the caller keeps Board in step.
func (p *Position) toggle(pc Piece, sq Square) {
	bit := SquareBB(sq)
	p.BB[pc] ^= bit
	p.BB[colorSlot(pc.Color())] ^= bit
	p.BB[All] ^= bit
	p.BB[AllRotated90] ^= 1 << rotated[orientFile][sq]
	p.BB[AllRotated45] ^= 1 << rotated[orientDiag][sq]
	p.BB[AllRotated135] ^= 1 << rotated[orientAntiDiag][sq]
	p.Hash ^= zobristPiece[pc][sq]
	if pc.Type() == Pawn {
		p.PawnKey ^= zobristPiece[pc][sq]
	}
}

func (p *Position) place(pc Piece, sq Square) {
	p.Board[sq] = pc
	p.toggle(pc, sq)
	switch pc.Type() {
	case Pawn:
		p.PawnCount++
	case King:
		p.KingSquare[pc.Color()] = sq
	default:
		p.PieceCount++
	}
}

func (p *Position) remove(sq Square) Piece {
	pc := p.Board[sq]
	if pc == NoPiece {
		return NoPiece
	}
	p.Board[sq] = NoPiece
	p.toggle(pc, sq)
	switch pc.Type() {
	case Pawn:
		p.PawnCount--
	case King:
		p.KingSquare[pc.Color()] = NoSquare
	default:
		p.PieceCount--
	}
	return pc
}

func (p *Position) shift(pc Piece, from, to Square) {
	p.Board[from] = NoPiece
	p.toggle(pc, from)
	p.Board[to] = pc
	p.toggle(pc, to)
	if pc.Type() == King {
		p.KingSquare[pc.Color()] = to
	}
}

func (p *Position) updateStage() {
	p.Stage = stageFor(p.PawnCount, p.PieceCount)
}

// PieceAt returns the occupant of sq.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// AttackersOf returns c's pieces attacking sq through the given occupancy.
func (p *Position) attackersOf(c Color, sq Square, occ *Occupancy) Bitboard {
	diag := p.BB[MakePiece(Bishop, c)] | p.BB[MakePiece(Queen, c)]
	orth := p.BB[MakePiece(Rook, c)] | p.BB[MakePiece(Queen, c)]
	return pawnAttacks[c.Other()][sq]&p.BB[MakePiece(Pawn, c)] |
		knightAttacks[sq]&p.BB[MakePiece(Knight, c)] |
		kingAttacks[sq]&p.BB[MakePiece(King, c)] |
		occ.BishopAttacks(sq)&diag |
		occ.RookAttacks(sq)&orth
}

// AttackersOf returns every c piece attacking sq.
func (p *Position) AttackersOf(c Color, sq Square) Bitboard {
	occ := p.Occupancy()
	return p.attackersOf(c, sq, &occ)
}

// AttacksBy reports whether c attacks sq.
func (p *Position) AttacksBy(c Color, sq Square) bool {
	return p.AttackersOf(c, sq) != 0
}

// AttacksByKingRemoved reports whether c would attack sq with the other
// side's king lifted off the board. A king stepping away along a checking
// ray must not treat its own square as a shield.
func (p *Position) AttacksByKingRemoved(c Color, sq Square) bool {
	occ := p.Occupancy()
	if ksq := p.KingSquare[c.Other()]; ksq != NoSquare {
		occ = occ.Without(ksq)
	}
	return p.attackersOf(c, sq, &occ) != 0
}

// NonKingAttackersOf is AttackersOf without c's king.
func (p *Position) NonKingAttackersOf(c Color, sq Square) Bitboard {
	return p.AttackersOf(c, sq) &^ p.BB[MakePiece(King, c)]
}

// NonKingNonPawnAttackersOf leaves out kings and pawns, whose attacks are
// not moves onto an empty square.
func (p *Position) NonKingNonPawnAttackersOf(c Color, sq Square) Bitboard {
	return p.NonKingAttackersOf(c, sq) &^ p.BB[MakePiece(Pawn, c)]
}

// InCheck reports whether side c's king is attacked.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare[c]
	return ksq != NoSquare && p.AttacksBy(c.Other(), ksq)
}

// Validate checks every redundant field against the occupant array and
// returns the first disagreement.
func (p *Position) Validate() error {
	var want Position
	want.KingSquare = [2]Square{NoSquare, NoSquare}
	for sq, pc := range p.Board {
		if pc > BlackKing {
			return fmt.Errorf("bad piece code %d on %s", pc, Square(sq))
		}
		if pc != NoPiece {
			want.place(pc, Square(sq))
		}
	}
	for i := range BitboardCount {
		if want.BB[i] != p.BB[i] {
			return fmt.Errorf("bitboard %d is %016x, occupants give %016x", i, uint64(p.BB[i]), uint64(want.BB[i]))
		}
	}
	if want.KingSquare != p.KingSquare {
		return fmt.Errorf("king squares %v, occupants give %v", p.KingSquare, want.KingSquare)
	}
	if want.PawnCount != p.PawnCount || want.PieceCount != p.PieceCount {
		return fmt.Errorf("counts %d/%d, occupants give %d/%d", p.PawnCount, p.PieceCount, want.PawnCount, want.PieceCount)
	}
	if h := p.ComputeHash(); h != p.Hash {
		return fmt.Errorf("hash %016x, rebuilt %016x", p.Hash, h)
	}
	if k := p.ComputePawnKey(); k != p.PawnKey {
		return fmt.Errorf("pawn key %016x, rebuilt %016x", p.PawnKey, k)
	}
	return nil
}

// Material returns White's material minus Black's.
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += PieceValue[pt] * (p.Pieces(pt, White).PopCount() - p.Pieces(pt, Black).PopCount())
	}
	return score
}

// HasNonPawnMaterial reports whether c has anything besides pawns and king.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	for pt := Knight; pt <= Queen; pt++ {
		if p.Pieces(pt, c) != 0 {
			return true
		}
	}
	return false
}

func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := range 8 {
			sb.WriteString(" " + p.Board[NewSquare(file, rank)].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	fmt.Fprintf(&sb, "%s to move, castling %s, en passant %s, %s\n", p.SideToMove, p.Castle, p.EnPassant, p.Stage)
	fmt.Fprintf(&sb, "FEN %s\nHash %016x\n", p.ToFEN(), p.Hash)
	return sb.String()
}
