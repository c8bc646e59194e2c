package geometry

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/goban-reader/internal/failure"
)

// Warp renders the width x height frame that h maps src into.
//
// Each destination pixel is mapped back through h's inverse and sampled
// bilinearly. Pixels whose preimage falls outside src stay fully
// transparent so that downstream samplers skip them.
func Warp(src image.Image, h Homography, width, height int) (*image.NRGBA, error) {
	if src == nil || src.Bounds().Empty() || width <= 0 || height <= 0 {
		return nil, failure.New(failure.StageGeometry, failure.KindInvalidInput,
			"cannot warp an empty image into %dx%d", width, height)
	}
	inv, err := h.Inverse()
	if err != nil {
		return nil, failure.Wrap(failure.StageGeometry, failure.KindInvalidInput, err, "singular transform")
	}

	// Clone rebases to (0,0); shift the preimage accordingly.
	s := imaging.Clone(src)
	off := src.Bounds().Min
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p, ok := inv.Apply(Point{X: float64(x), Y: float64(y)})
			if !ok {
				continue
			}
			if c, ok := bilinear(s, p.X-float64(off.X), p.Y-float64(off.Y)); ok {
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	return dst, nil
}

// bilinear samples img at a sub-pixel position. Positions more than half a
// pixel outside the image are rejected; inside that band the edge pixels
// are reused.
func bilinear(img *image.NRGBA, x, y float64) (color.NRGBA, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if x < -0.5 || y < -0.5 || x > float64(w)-0.5 || y > float64(h)-0.5 {
		return color.NRGBA{}, false
	}

	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	at := func(px, py int) color.NRGBA {
		px = clampInt(px, 0, w-1)
		py = clampInt(py, 0, h-1)
		return img.NRGBAAt(px, py)
	}
	c00, c10 := at(x0, y0), at(x0+1, y0)
	c01, c11 := at(x0, y0+1), at(x0+1, y0+1)

	mix := func(a, b, c, d uint8) uint8 {
		top := float64(a)*(1-fx) + float64(b)*fx
		bottom := float64(c)*(1-fx) + float64(d)*fx
		return uint8(math.Round(top*(1-fy) + bottom*fy))
	}
	return color.NRGBA{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
