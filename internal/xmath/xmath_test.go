package xmath

import "testing"

func TestAbs(t *testing.T) {
	tests := []struct {
		in, abs int
	}{
		{0, 0},
		{7, 7},
		{-9, 9},
	}
	for _, tc := range tests {
		if got := Abs(tc.in); got != tc.abs {
			t.Errorf("Abs(%d) = %d, want %d", tc.in, got, tc.abs)
		}
	}
	if got := Abs(int8(-5)); got != 5 {
		t.Errorf("Abs(int8(-5)) = %d", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(15, 0, 10); got != 10 {
		t.Errorf("Clamp above = %d", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp below = %d", got)
	}
	if got := Clamp(4, 0, 10); got != 4 {
		t.Errorf("Clamp inside = %d", got)
	}
}
