package engine

import (
	"strconv"

	"github.com/hailam/rotorchess/internal/xmath"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
	DrawScore = 0
)

// MatedIn is the score of the side to move when it is mated at ply.
func MatedIn(ply int) int {
	return -(MateScore - ply)
}

// IsMate reports whether score announces a forced mate for either side.
func IsMate(score int) bool {
	return xmath.Abs(score) >= MateScore-MaxPly
}

// MatePlies returns the distance in plies to the announced mate.
func MatePlies(score int) int {
	return MateScore - xmath.Abs(score)
}

// AdjustScoreToTT makes a mate score relative to the node being stored
// instead of the search root.
func AdjustScoreToTT(score int, ply int) int {
	if score >= MateScore-MaxPly {
		return score + ply
	}
	if score <= -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// AdjustScoreFromTT converts a stored mate score back to root distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score >= MateScore-MaxPly {
		return score - ply
	}
	if score <= -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// ScoreToString renders a score for people: "Mate in 2", "Mated in 1" or
// pawns with two decimals.
func ScoreToString(score int) string {
	if IsMate(score) {
		moves := strconv.Itoa((MatePlies(score) + 1) / 2)
		if score > 0 {
			return "Mate in " + moves
		}
		return "Mated in " + moves
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	cents := strconv.Itoa(score % 100)
	if len(cents) == 1 {
		cents = "0" + cents
	}
	return sign + strconv.Itoa(score/100) + "." + cents
}
