package vector

import (
	"math"
	"testing"
)

func TestVecAdd(t *testing.T) {
	x := Vec32{1, 1, 1}
	y := Vec32{1, 1, 1}
	eq := Vec32{2, 2, 2}

	if !VecEquals(Add(x, y), eq) {
		t.Errorf("Vector Addition failed %f", x[0])
	}
}

func TestVecDot(t *testing.T) {
	x := Vec32{1, 2, 3}
	y := Vec32{1, 1, 1}
	eq := float32(6.0)

	if Dot(x, y) != eq {
		t.Errorf("Vector dot failed %f", x[0])
	}
}

func TestVecScaleSub(t *testing.T) {
	a := Vec32{2, 2, 2}

	if !VecEquals(Scale(a, 2.0), Vec32{4, 4, 4}) {
		t.Error("scale mismatch")
	}
	if !VecEquals(Sub(Vec32{4, 4, 4}, a), a) {
		t.Error("sub mismatch")
	}
}

func TestVecCross(t *testing.T) {
	r := Cross(Vec32{-2, -2, -2}, Vec32{1, 2, 1})
	if !VecEquals(r, Vec32{2, 0, -2}) {
		t.Errorf("Cross %f,%f,%f", r[0], r[1], r[2])
	}
}

func TestVecLength(t *testing.T) {
	a := Vec32{2, 2, 2}
	if Length(a) != float32(math.Sqrt(12)) {
		t.Error("Error Length")
	}
}

func TestVecNormalize(t *testing.T) {
	n := Normalize(Vec32{3, 0, 0})
	if !VecEquals(n, Vec32{1, 0, 0}) {
		t.Errorf("Error Normalization %f %f %f", n[0], n[1], n[2])
	}
	if !VecEquals(Normalize(Vec32{}), Vec32{}) {
		t.Error("expected normalizing the zero vector to return the zero vector")
	}
}

func TestVec64Arithmetic(t *testing.T) {
	a := Vec64{1, 2, 3}
	b := Vec64{4, 5, 6}

	if Add64(a, b) != (Vec64{5, 7, 9}) {
		t.Errorf("Add64 mismatch: %v", Add64(a, b))
	}
	if Sub64(b, a) != (Vec64{3, 3, 3}) {
		t.Errorf("Sub64 mismatch: %v", Sub64(b, a))
	}
	if Dot64(a, b) != 32 {
		t.Errorf("Dot64 mismatch: %f", Dot64(a, b))
	}
}

func TestShiftPeriodicWraps(t *testing.T) {
	dim := Vec64{1, 1, 1}
	a := Vec64{0.05, 0.5, 0.5}
	b := Vec64{0.95, 0.5, 0.5}

	d := ShiftPeriodic(a, b, dim)
	if math.Abs(d[0]-(-0.1)) > 1e-9 {
		t.Errorf("expected wrapped x delta near -0.1, got %f", d[0])
	}
	if d[1] != 0 || d[2] != 0 {
		t.Errorf("y/z deltas should be zero, got %v", d)
	}
}
