package board

import "strings"

// Algebraic writes the move in short algebraic form without disambiguation
// and without check marks: "Nf3", "exd5", "e8=Q", "O-O".
func (m Move) Algebraic() string {
	switch m.Modifier() {
	case KingSideCastle:
		return "O-O"
	case QueenSideCastle:
		return "O-O-O"
	}
	if m == NoMove {
		return "-"
	}

	var sb strings.Builder
	pt := m.PieceType()
	if pt != Pawn {
		sb.WriteByte(pt.Letter())
	}
	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte(byte('a' + m.From().File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(m.To().String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion().Type().Letter())
	}
	return sb.String()
}

// FormatLine writes a sequence of moves in algebraic form separated by spaces.
func FormatLine(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Algebraic()
	}
	return strings.Join(parts, " ")
}
