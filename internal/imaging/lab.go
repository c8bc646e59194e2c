package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/goban-reader/internal/failure"
)

// LabImage holds an image converted to CIE L*a*b* (D65).
//
// L is scaled to [0,100]; a and b use the same x100 scale, so a neutral gray
// has a = b = 0 and saturated colours reach roughly +-100. Pixels that are
// not fully opaque in the source (outside a perspective warp, or blended
// with its border) are marked unusable and skipped by every sampler.
type LabImage struct {
	Rect image.Rectangle
	L    []float64
	A    []float64
	B    []float64
	ok   []bool
}

// CheckChannels rejects empty images and colour models without three colour
// channels.
func CheckChannels(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return failure.New(failure.StageFeatures, failure.KindInvalidInput, "empty image")
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return failure.New(failure.StageFeatures, failure.KindInvalidInput,
			"unsupported channel layout %T", img)
	}
	return nil
}

// NewLabImage converts img pixel by pixel.
func NewLabImage(img image.Image) (*LabImage, error) {
	if err := CheckChannels(img); err != nil {
		return nil, err
	}

	r := img.Bounds()
	n := r.Dx() * r.Dy()
	m := &LabImage{
		Rect: r,
		L:    make([]float64, n),
		A:    make([]float64, n),
		B:    make([]float64, n),
		ok:   make([]bool, n),
	}

	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			px := img.At(x, y)
			if _, _, _, alpha := px.RGBA(); alpha == 0xffff {
				c, _ := colorful.MakeColor(px)
				l, a, b := c.Lab()
				m.L[i], m.A[i], m.B[i] = l*100, a*100, b*100
				m.ok[i] = true
			}
			i++
		}
	}
	return m, nil
}

// Bounds returns the pixel rectangle.
func (m *LabImage) Bounds() image.Rectangle {
	return m.Rect
}

// At returns the L*a*b* value of pixel (x, y). ok is false outside the
// image and for pixels that were not opaque.
func (m *LabImage) At(x, y int) (l, a, b float64, ok bool) {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0, 0, 0, false
	}
	i := (y-m.Rect.Min.Y)*m.Rect.Dx() + (x - m.Rect.Min.X)
	if !m.ok[i] {
		return 0, 0, 0, false
	}
	return m.L[i], m.A[i], m.B[i], true
}
