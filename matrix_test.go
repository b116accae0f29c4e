package memoji

import (
	"math"
	"testing"
)

func pointsEqual(x1, y1, x2, y2 float64) bool {
	const epsilon = 1e-9
	return math.Abs(x1-x2) < epsilon && math.Abs(y1-y2) < epsilon
}

func TestMatrix_TransformPoint(t *testing.T) {
	tests := []struct {
		name         string
		m            Matrix
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -2), 3, 4, 13, 2},
		{"scale", Scale(2, 0.5), 3, 4, 6, 2},
		{"flip origin", FlipY(100), 0, 0, 0, 100},
		{"flip top", FlipY(100), 7, 100, 7, 0},
		{"flip center", FlipY(100), 7, 50, 7, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.x, tt.y)
			if !pointsEqual(x, y, tt.wantX, tt.wantY) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMatrix_MultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 20).Multiply(Scale(2, 3))
	x, y := m.TransformPoint(1, 1)
	if !pointsEqual(x, y, 12, 23) {
		t.Errorf("got (%v, %v), want (12, 23)", x, y)
	}

	// Translate first, then scale.
	m = Scale(2, 3).Multiply(Translate(10, 20))
	x, y = m.TransformPoint(1, 1)
	if !pointsEqual(x, y, 22, 63) {
		t.Errorf("got (%v, %v), want (22, 63)", x, y)
	}
}

func TestMatrix_FlipYIsInvolution(t *testing.T) {
	m := FlipY(37).Multiply(FlipY(37))
	if !m.IsIdentity() {
		t.Errorf("FlipY twice = %+v, want identity", m)
	}
}

func TestMatrix_Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Translate(5, -7)},
		{"scale", Scale(4, 0.25)},
		{"flip", FlipY(64)},
		{"combined", Translate(3, 4).Multiply(Scale(2, -2)).Multiply(FlipY(10))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatal("Invert() reported singular matrix")
			}
			x, y := inv.TransformPoint(tt.m.TransformPoint(1.5, -2.5))
			if !pointsEqual(x, y, 1.5, -2.5) {
				t.Errorf("round trip = (%v, %v), want (1.5, -2.5)", x, y)
			}
		})
	}
}

func TestMatrix_InvertSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a singular matrix reported ok")
	}
	if _, ok := (Matrix{}).Invert(); ok {
		t.Error("Invert() of the zero matrix reported ok")
	}
}

func TestMatrix_IsIdentity(t *testing.T) {
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if !Scale(1, 1).IsIdentity() {
		t.Error("Scale(1, 1).IsIdentity() = false")
	}
	if Translate(0, 1).IsIdentity() {
		t.Error("Translate(0, 1).IsIdentity() = true")
	}
}
