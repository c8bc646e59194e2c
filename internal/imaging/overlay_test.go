package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayDrawsMarkersOnACopy(t *testing.T) {
	src := createInMemoryImage(100, 100, color.RGBA{220, 180, 110, 255})

	markers := []Marker{
		{X: 20, Y: 20, Kind: MarkerBlack},
		{X: 50, Y: 20, Kind: MarkerWhite},
		{X: 80, Y: 20, Kind: MarkerRejected},
		{X: 20, Y: 70, Kind: MarkerEmpty},
	}
	out := Overlay(src, nil, markers, OverlayOptions{Radius: 8})
	require.Equal(t, src.Bounds(), out.Bounds())

	// ring pixels sit on the radius, the centre stays untouched
	assert.Equal(t, blackRing, out.NRGBAAt(28, 20))
	assert.Equal(t, whiteRing, out.NRGBAAt(58, 20))
	assert.Equal(t, rejectedRing, out.NRGBAAt(88, 20))
	assert.Equal(t, emptyDot, out.NRGBAAt(20, 70))
	assert.Equal(t, src.NRGBAAt(20, 20), out.NRGBAAt(20, 20))

	// source is not modified
	assert.Equal(t, color.NRGBA{220, 180, 110, 255}, src.NRGBAAt(28, 20))
}

func TestOverlayGridSegmentsAndLabels(t *testing.T) {
	src := createInMemoryImage(120, 60, color.White)
	segments := []Segment{{X0: 10, Y0: 30, X1: 110, Y1: 30}}

	out := Overlay(src, segments, []Marker{{X: 60, Y: 10, Label: "A1"}}, OverlayOptions{
		ShowLabels: true,
		GridColor:  "#0000FF",
	})

	for x := 10; x <= 110; x += 25 {
		assert.Equal(t, color.NRGBA{0, 0, 255, 255}, out.NRGBAAt(x, 30), "x=%d", x)
	}

	// the label box darkens the area right of and below the marker
	bg := out.NRGBAAt(62, 12)
	assert.Less(t, bg.R, uint8(255))
}

func TestOverlayInvalidGridColorFallsBack(t *testing.T) {
	src := createInMemoryImage(20, 20, color.White)
	out := Overlay(src, []Segment{{X0: 0, Y0: 5, X1: 19, Y1: 5}}, nil, OverlayOptions{GridColor: "nope"})

	px := out.NRGBAAt(10, 5)
	assert.Equal(t, uint8(255), px.R)
	assert.Less(t, px.G, uint8(255))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00FF0080", color.NRGBA{0, 255, 0, 128}, false},
		{"", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeOverlay(t *testing.T) {
	src := createInMemoryImage(30, 20, color.Black)

	res, err := EncodeOverlay(src)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Width)
	assert.Equal(t, 20, res.Height)
	assert.Equal(t, "image/png", res.MimeType)

	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), decoded.Bounds())
}
