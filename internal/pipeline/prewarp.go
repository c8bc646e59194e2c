package pipeline

import (
	"image"
	"math"

	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
)

// cornerMargin is the border left around the corner square, as a fraction
// of its side.
const cornerMargin = 0.05

// CornerHomography maps the four board corners of a photograph, clockwise
// from the top-left, onto an axis-aligned square as large as the longest
// corner-to-corner edge.
func CornerHomography(corners []geometry.Point) (geometry.Homography, error) {
	if len(corners) != 4 {
		return geometry.Homography{}, failure.New(failure.StageGeometry, failure.KindInvalidInput,
			"need 4 corners, got %d", len(corners))
	}

	var quad [4]geometry.Point
	copy(quad[:], corners)

	side := 0.0
	for i := range quad {
		a, b := quad[i], quad[(i+1)%4]
		side = math.Max(side, math.Hypot(b.X-a.X, b.Y-a.Y))
	}
	side = math.Round(side)
	return geometry.FromCorners(quad, side, math.Round(cornerMargin*side))
}

// Frame renders the photograph through h, the rough pre-warp lines are
// detected in. The identity returns img itself.
func Frame(img image.Image, h geometry.Homography) (image.Image, error) {
	if h == geometry.Identity() || h == (geometry.Homography{}) {
		return img, nil
	}
	w, ht := frameSize(img.Bounds(), h)
	return geometry.Warp(img, h, w, ht)
}

// frameSize is the extent of the photograph's bounds mapped through h,
// clipped to the positive quadrant and to twice the larger photo side.
func frameSize(b image.Rectangle, h geometry.Homography) (int, int) {
	limit := 2 * max(b.Dx(), b.Dy())
	corners := []geometry.Point{
		{X: float64(b.Min.X), Y: float64(b.Min.Y)},
		{X: float64(b.Max.X), Y: float64(b.Min.Y)},
		{X: float64(b.Max.X), Y: float64(b.Max.Y)},
		{X: float64(b.Min.X), Y: float64(b.Max.Y)},
	}

	var maxX, maxY float64
	for _, c := range corners {
		p, ok := h.Apply(c)
		if !ok {
			return limit, limit
		}
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return clampSide(maxX, limit), clampSide(maxY, limit)
}

func clampSide(v float64, limit int) int {
	n := int(math.Ceil(v))
	return max(1, min(n, limit))
}
