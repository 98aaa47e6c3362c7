package utils

import (
	"math"
	"testing"
)

func TestFinite(t *testing.T) {
	if !Finite(0) || !Finite(-1.5) {
		t.Error("ordinary values should be finite")
	}
	if Finite(math.NaN()) || Finite(math.Inf(1)) || Finite(math.Inf(-1)) {
		t.Error("NaN and infinities are not finite")
	}
}

func TestFinitePtr(t *testing.T) {
	v, nan := 1.0, math.NaN()
	if FinitePtr(nil) {
		t.Error("nil pointer is not finite")
	}
	if !FinitePtr(&v) {
		t.Error("pointer to finite value should pass")
	}
	if FinitePtr(&nan) {
		t.Error("pointer to NaN should fail")
	}
}

func TestTryDivide(t *testing.T) {
	if q, ok := TryDivide(10, 4); !ok || q != 2.5 {
		t.Errorf("TryDivide(10, 4) = (%v, %v)", q, ok)
	}
	if _, ok := TryDivide(10, 0); ok {
		t.Error("division by zero should fail")
	}
	if _, ok := TryDivide(math.NaN(), 1); ok {
		t.Error("NaN numerator should fail")
	}
	if _, ok := TryDivide(1, math.Inf(1)); ok {
		t.Error("infinite denominator should fail")
	}
}

func TestTryPercentMove(t *testing.T) {
	if m, ok := TryPercentMove(110, 100); !ok || m != 10 {
		t.Errorf("TryPercentMove(110, 100) = (%v, %v)", m, ok)
	}
	if m, ok := TryPercentMove(190, 200); !ok || m != -5 {
		t.Errorf("TryPercentMove(190, 200) = (%v, %v)", m, ok)
	}
	if _, ok := TryPercentMove(100, 0); ok {
		t.Error("zero base should fail")
	}
}

func TestRoundAndClampPct(t *testing.T) {
	if RoundPct(33.4) != 33 || RoundPct(33.5) != 34 || RoundPct(-0.4) != 0 {
		t.Error("RoundPct rounds to nearest")
	}
	if ClampPct(-5) != 0 || ClampPct(105) != 100 || ClampPct(60) != 60 {
		t.Error("ClampPct bounds [0, 100]")
	}
}

// Composite keys rely on 10 and 10.0 producing identical text.
func TestFormatNumberShortestForm(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{10.0, "10"},
		{150.5, "150.5"},
		{0.1, "0.1"},
		{-3, "-3"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
