package geometry

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/grid"
)

// Board is the rectified geometry of one photograph.
//
// Intersections holds Size*Size points in the rectified image, row-major by
// board coordinate: index row*Size+col, row 0 at the top and col 0 at the
// left. A Board is never modified after Assemble returns it.
type Board struct {
	Image         *image.NRGBA `json:"-"`
	Homography    Homography   `json:"homography"` // photograph -> rectified image
	Size          int          `json:"size"`
	Intersections []Point      `json:"intersections"`
	Spacing       float64      `json:"spacing"`
}

// Index returns the row-major index of (row, col).
func (b *Board) Index(row, col int) int {
	return row*b.Size + col
}

// Intersection returns the rectified position of (row, col).
func (b *Board) Intersection(row, col int) Point {
	return b.Intersections[b.Index(row, col)]
}

// Assemble rectifies photo onto a canonical lattice.
//
// toWarped maps the photograph into the frame the axis candidates were
// measured in (Identity when the photograph was used as is). The four outer
// intersections of g are pinned to a square lattice with cfg.CanonicalSpacing
// between lines and cfg.MarginCells of border, which yields the corrected
// homography photo -> rectified. Every intersection is the crossing of its
// fitted vertical and horizontal line, carried into the rectified frame, so
// local irregularities of the detected grid are preserved.
func Assemble(photo image.Image, toWarped Homography, g *grid.Grid, cfg config.GeometryConfig) (*Board, error) {
	if g == nil || g.Size < 2 || len(g.Vertical.Positions) != g.Size || len(g.Horizontal.Positions) != g.Size {
		return nil, failure.New(failure.StageGeometry, failure.KindInvalidInput, "incomplete grid")
	}

	n := g.Size
	vs, hs := g.Vertical.Positions, g.Horizontal.Positions
	s := cfg.CanonicalSpacing
	m := cfg.MarginCells * s
	far := m + float64(n-1)*s

	gridCorners := [4]Point{
		{X: vs[0], Y: hs[0]},
		{X: vs[n-1], Y: hs[0]},
		{X: vs[n-1], Y: hs[n-1]},
		{X: vs[0], Y: hs[n-1]},
	}
	canonical := [4]Point{
		{X: m, Y: m},
		{X: far, Y: m},
		{X: far, Y: far},
		{X: m, Y: far},
	}

	correction, err := EstimateHomography(gridCorners, canonical)
	if err != nil {
		return nil, err
	}
	full := correction.Mul(toWarped)

	side := int(math.Round(far+m)) + 1
	rectified, err := Warp(photo, full, side, side)
	if err != nil {
		return nil, err
	}
	if cfg.SmoothRadius > 0 {
		rectified = imaging.Clone(blur.Gaussian(rectified, cfg.SmoothRadius))
	}

	points := make([]Point, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			p, ok := correction.Apply(Point{X: vs[c], Y: hs[r]})
			if !ok {
				return nil, failure.New(failure.StageGeometry, failure.KindInvalidInput,
					"intersection (%d,%d) maps to infinity", r, c)
			}
			points = append(points, p)
		}
	}

	return &Board{
		Image:         rectified,
		Homography:    full,
		Size:          n,
		Intersections: points,
		Spacing:       s,
	}, nil
}
