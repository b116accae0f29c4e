package memoji

import "math"

// Matrix is an affine map from user space to device space:
//
//	x' = XX*x + XY*y + X0
//	y' = YX*x + YY*y + Y0
//
// The zero Matrix is singular; start from Identity.
type Matrix struct {
	XX, XY, X0 float64
	YX, YY, Y0 float64
}

// Identity returns the matrix that leaves points unchanged.
func Identity() Matrix { return Matrix{XX: 1, YY: 1} }

// Translate returns a matrix that moves points by (dx, dy).
func Translate(dx, dy float64) Matrix { return Matrix{XX: 1, YY: 1, X0: dx, Y0: dy} }

// Scale returns a matrix that stretches x by sx and y by sy.
func Scale(sx, sy float64) Matrix { return Matrix{XX: sx, YY: sy} }

// FlipY mirrors a canvas of the given height about its horizontal center
// line, mapping (x, y) to (x, height-y).
func FlipY(height float64) Matrix { return Matrix{XX: 1, YY: -1, Y0: height} }

// Multiply returns the composition m∘n: points go through n, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	x0, y0 := m.TransformPoint(n.X0, n.Y0)
	return Matrix{
		XX: m.XX*n.XX + m.XY*n.YX, XY: m.XX*n.XY + m.XY*n.YY, X0: x0,
		YX: m.YX*n.XX + m.YY*n.YX, YY: m.YX*n.XY + m.YY*n.YY, Y0: y0,
	}
}

// TransformPoint maps (x, y) through m.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.XX*x + m.XY*y + m.X0, m.YX*x + m.YY*y + m.Y0
}

// det is the determinant of the linear part.
func (m Matrix) det() float64 { return m.XX*m.YY - m.XY*m.YX }

// Invert returns the inverse of m. It reports false when m collapses the
// plane onto a line or a point.
func (m Matrix) Invert() (Matrix, bool) {
	d := m.det()
	if math.Abs(d) < 1e-10 {
		return Matrix{}, false
	}
	inv := Matrix{
		XX: m.YY / d, XY: -m.XY / d,
		YX: -m.YX / d, YY: m.XX / d,
	}
	// The translation undoes m's offset in the inverted basis.
	x0, y0 := inv.TransformPoint(m.X0, m.Y0)
	inv.X0, inv.Y0 = -x0, -y0
	return inv, true
}

// IsIdentity reports whether m leaves every point unchanged.
func (m Matrix) IsIdentity() bool { return m == Identity() }
