package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MarkerKind selects how an intersection is drawn.
type MarkerKind int

const (
	MarkerEmpty MarkerKind = iota
	MarkerBlack
	MarkerWhite
	MarkerRejected // resolved to empty by a policy check
)

// Marker is one intersection to annotate.
type Marker struct {
	X, Y  float64
	Kind  MarkerKind
	Label string
}

// Segment is a straight line drawn under the markers.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// OverlayOptions controls Overlay.
type OverlayOptions struct {
	Radius     float64 // stone ring radius in px
	ShowLabels bool
	GridColor  string // "#RRGGBB" or "#RRGGBBAA"; invalid values fall back to translucent red
}

// OverlayResult is an encoded overlay for transport.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var (
	blackRing    = color.NRGBA{R: 0, G: 90, B: 255, A: 255}
	whiteRing    = color.NRGBA{R: 255, G: 40, B: 40, A: 255}
	emptyDot     = color.NRGBA{R: 40, G: 200, B: 40, A: 255}
	rejectedRing = color.NRGBA{R: 255, G: 170, B: 0, A: 255}
	labelFg      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	labelBg      = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
)

// Overlay draws grid segments and intersection markers on a copy of img.
func Overlay(img image.Image, segments []Segment, markers []Marker, opts OverlayOptions) *image.NRGBA {
	dst := imaging.Clone(img)
	// Clone rebases to (0,0)
	off := img.Bounds().Min

	gridColor, err := parseHexColor(opts.GridColor)
	if err != nil {
		gridColor = color.NRGBA{R: 255, G: 0, B: 0, A: 128}
	}
	for _, s := range segments {
		drawSegment(dst, s.X0-float64(off.X), s.Y0-float64(off.Y),
			s.X1-float64(off.X), s.Y1-float64(off.Y), gridColor)
	}

	radius := opts.Radius
	if radius <= 0 {
		radius = 6
	}
	for _, m := range markers {
		x, y := m.X-float64(off.X), m.Y-float64(off.Y)
		switch m.Kind {
		case MarkerBlack:
			drawRing(dst, x, y, radius, 2, blackRing)
		case MarkerWhite:
			drawRing(dst, x, y, radius, 2, whiteRing)
		case MarkerRejected:
			drawRing(dst, x, y, radius, 1, rejectedRing)
		default:
			fillDisc(dst, x, y, 2, emptyDot)
		}
		if opts.ShowLabels && m.Label != "" {
			drawLabel(dst, int(math.Round(x))+3, int(math.Round(y))+3, m.Label, labelFg, labelBg)
		}
	}
	return dst
}

// EncodeOverlay encodes img as a base64 PNG.
func EncodeOverlay(img image.Image) (*OverlayResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// blend paints c over the pixel at (x, y), honouring c's alpha.
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return
	}
	if c.A == 255 {
		img.SetNRGBA(x, y, c)
		return
	}
	bg := img.NRGBAAt(x, y)
	a := float64(c.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(f)*a + float64(b)*(1-a)))
	}
	img.SetNRGBA(x, y, color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: bg.A})
}

func drawSegment(img *image.NRGBA, x0, y0, x1, y1 float64, c color.NRGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		blend(img, int(math.Round(x0)), int(math.Round(y0)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		blend(img, int(math.Round(x0+t*(x1-x0))), int(math.Round(y0+t*(y1-y0))), c)
	}
}

func drawRing(img *image.NRGBA, cx, cy, r, width float64, c color.NRGBA) {
	inner := math.Max(r-width, 0)
	forDisc(cx, cy, r, func(x, y int, d2 float64) {
		if d2 >= inner*inner {
			blend(img, x, y, c)
		}
	})
}

func fillDisc(img *image.NRGBA, cx, cy, r float64, c color.NRGBA) {
	forDisc(cx, cy, r, func(x, y int, _ float64) {
		blend(img, x, y, c)
	})
}

func forDisc(cx, cy, r float64, fn func(x, y int, d2 float64)) {
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if d2 := dx*dx + dy*dy; d2 <= r*r {
				fn(x, y, d2)
			}
		}
	}
}

// drawLabel draws text on a translucent box whose top-left corner is (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	height := face.Height

	for dy := -1; dy <= height; dy++ {
		for dx := -1; dx <= width; dx++ {
			blend(img, x+dx, y+dy, bg)
		}
	}

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
