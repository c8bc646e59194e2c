package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/goban-reader/internal/failure"
)

// Point is a sub-pixel image position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Homography is a row-major 3x3 projective transform.
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps p through h. ok is false when p maps to infinity.
func (h Homography) Apply(p Point) (Point, bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Mul returns h*o: the transform that applies o first, then h.
func (h Homography) Mul(o Homography) Homography {
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i*3+j] += h[i*3+k] * o[k*3+j]
			}
		}
	}
	return out.normalized()
}

// Inverse returns the inverse transform.
func (h Homography) Inverse() (Homography, error) {
	m := mat.NewDense(3, 3, append([]float64(nil), h[:]...))

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Homography{}, fmt.Errorf("failed to invert homography: %w", err)
	}

	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = inv.At(i, j)
		}
	}
	return out.normalized(), nil
}

func (h Homography) normalized() Homography {
	if h[8] == 0 {
		return h
	}
	s := h[8]
	for i := range h {
		h[i] /= s
	}
	return h
}

// EstimateHomography solves for the transform mapping src[i] to dst[i].
//
// h22 is fixed to 1 and the remaining eight unknowns come from the 8x8
// linear system of the four correspondences. Three collinear points on
// either side make the system singular.
func EstimateHomography(src, dst [4]Point) (Homography, error) {
	if degenerate(src) || degenerate(dst) {
		return Homography{}, failure.New(failure.StageGeometry, failure.KindInvalidInput,
			"degenerate quadrilateral: three corners are collinear")
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i

		// u = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
		a.Set(r, 0, x)
		a.Set(r, 1, y)
		a.Set(r, 2, 1)
		a.Set(r, 6, -x*u)
		a.Set(r, 7, -y*u)
		b.SetVec(r, u)

		// v = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
		a.Set(r+1, 3, x)
		a.Set(r+1, 4, y)
		a.Set(r+1, 5, 1)
		a.Set(r+1, 6, -x*v)
		a.Set(r+1, 7, -y*v)
		b.SetVec(r+1, v)
	}

	var params mat.VecDense
	if err := params.SolveVec(a, b); err != nil {
		return Homography{}, failure.Wrap(failure.StageGeometry, failure.KindInvalidInput, err,
			"failed to solve homography")
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// degenerate reports whether any three of the four points are collinear.
func degenerate(p [4]Point) bool {
	scale := 0.0
	for i := range p {
		for j := i + 1; j < 4; j++ {
			scale = math.Max(scale, math.Hypot(p[i].X-p[j].X, p[i].Y-p[j].Y))
		}
	}
	if scale == 0 {
		return true
	}

	for skip := 0; skip < 4; skip++ {
		var t []Point
		for i := range p {
			if i != skip {
				t = append(t, p[i])
			}
		}
		area := (t[1].X-t[0].X)*(t[2].Y-t[0].Y) - (t[2].X-t[0].X)*(t[1].Y-t[0].Y)
		if math.Abs(area) < 1e-9*scale*scale {
			return true
		}
	}
	return false
}

// FromCorners maps four photograph corners, clockwise from the top-left,
// onto a side x side square offset by margin on both axes.
func FromCorners(corners [4]Point, side, margin float64) (Homography, error) {
	far := margin + side
	return EstimateHomography(corners, [4]Point{
		{X: margin, Y: margin},
		{X: far, Y: margin},
		{X: far, Y: far},
		{X: margin, Y: far},
	})
}
