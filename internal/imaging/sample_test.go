package imaging

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscCountsOnlyInsidePixels(t *testing.T) {
	m, err := NewLabImage(createInMemoryImage(20, 20, color.White))
	require.NoError(t, err)

	tests := []struct {
		name   string
		cx, cy float64
		r      float64
		want   int
	}{
		{"single pixel", 10, 10, 0, 1},
		{"radius one", 10, 10, 1, 5},
		{"radius two", 10, 10, 2, 13},
		{"corner clipped", 0, 0, 1, 3},
		{"fully outside", -10, -10, 2, 0},
		{"negative radius", 10, 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Disc(tt.cx, tt.cy, tt.r)
			assert.Equal(t, tt.want, s.N)
			if tt.want > 0 {
				assert.InDelta(t, 100, s.MeanL, 0.5)
			} else {
				assert.Zero(t, s.MeanL)
			}
		})
	}
}

func TestDiscAveragesMixedPixels(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.Black)
		}
	}
	m, err := NewLabImage(img)
	require.NoError(t, err)

	// radius-1 cross at the boundary: (4,5) black, (3,5) black, (5,5) white,
	// (4,4) black, (4,6) black
	s := m.Disc(4, 5, 1)
	require.Equal(t, 5, s.N)
	assert.InDelta(t, 20, s.MeanL, 0.5)

	var dark int
	m.EachInDisc(4, 5, 1, func(l, _, _ float64) {
		if l < 50 {
			dark++
		}
	})
	assert.Equal(t, 4, dark)
}
