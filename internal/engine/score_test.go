package engine

import "testing"

func TestMateScores(t *testing.T) {
	if MatedIn(3) != -(MateScore - 3) {
		t.Errorf("MatedIn(3) = %d", MatedIn(3))
	}
	for _, ply := range []int{0, 1, 7, MaxPly - 1} {
		for _, s := range []int{MatedIn(ply), -MatedIn(ply)} {
			if !IsMate(s) || MatePlies(s) != ply {
				t.Errorf("score %d: IsMate %v, MatePlies %d, want %d", s, IsMate(s), MatePlies(s), ply)
			}
			for _, at := range []int{0, 3, 20} {
				if got := AdjustScoreFromTT(AdjustScoreToTT(s, at), at); got != s {
					t.Errorf("TT round trip of %d at ply %d = %d", s, at, got)
				}
			}
		}
	}
	for _, s := range []int{0, 250, -900, MateScore - MaxPly - 1} {
		if IsMate(s) {
			t.Errorf("IsMate(%d) = true", s)
		}
		if AdjustScoreToTT(s, 9) != s {
			t.Errorf("AdjustScoreToTT changed plain score %d", s)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{-1234, "-12.34"},
		{MateScore - 1, "Mate in 1"},
		{MateScore - 3, "Mate in 2"},
		{MatedIn(2), "Mated in 1"},
		{MatedIn(4), "Mated in 2"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
