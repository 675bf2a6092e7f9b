// Package xmath has the small generic integer helpers shared by the board
// and the search.
package xmath

import "golang.org/x/exp/constraints"

// Abs returns |x|. Abs of the minimum value of T overflows, as in two's complement.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits x to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}
