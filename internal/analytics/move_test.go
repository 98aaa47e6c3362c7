package analytics

import (
	"math"
	"testing"

	"finguide/internal/models"
)

func TestMovePct(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		entry   float64
		want    float64
		ok      bool
	}{
		{"up 10", 110, 100, 10, true},
		{"down 5", 190, 200, -5, true},
		{"flat", 100, 100, 0, true},
		{"zero entry", 100, 0, 0, false},
		{"nan current", math.NaN(), 100, 0, false},
		{"inf entry", 100, math.Inf(1), 0, false},
	}
	for _, tc := range cases {
		got, ok := MovePct(tc.current, tc.entry)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: MovePct = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEffectiveMove(t *testing.T) {
	if got := EffectiveMove(models.SideBuy, 7.5); got != 7.5 {
		t.Errorf("BUY move = %v, want 7.5", got)
	}
	if got := EffectiveMove(models.SideSell, -5); got != 5 {
		t.Errorf("SELL move = %v, want 5 (negated)", got)
	}
	if got := EffectiveMove("", 3); got != 3 {
		t.Errorf("untyped move = %v, want pass-through 3", got)
	}
}

func TestWinBoundary(t *testing.T) {
	// Exactly zero is not a win.
	if Win(0) {
		t.Error("Win(0) = true, want false")
	}
	if !Win(0.0001) {
		t.Error("Win(0.0001) = false, want true")
	}
	if Win(-0.0001) {
		t.Error("Win(-0.0001) = true, want false")
	}
}
