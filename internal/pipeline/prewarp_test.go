package pipeline

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
)

func TestCornerHomography(t *testing.T) {
	corners := []geometry.Point{{X: 50, Y: 60}, {X: 450, Y: 40}, {X: 470, Y: 430}, {X: 30, Y: 440}}

	h, err := CornerHomography(corners)
	require.NoError(t, err)

	// the bottom edge is the longest, 440 px; margin 22
	tl, ok := h.Apply(corners[0])
	require.True(t, ok)
	br, ok := h.Apply(corners[2])
	require.True(t, ok)
	assert.InDelta(t, 22, tl.X, 1e-6)
	assert.InDelta(t, 22, tl.Y, 1e-6)
	assert.InDelta(t, 462, br.X, 1e-6)
	assert.InDelta(t, 462, br.Y, 1e-6)
}

func TestCornerHomographyNeedsFourPoints(t *testing.T) {
	_, err := CornerHomography([]geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	assert.True(t, errors.Is(err, failure.ErrInvalidInput))
}

func TestFrameIdentityIsUntouched(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	got, err := Frame(img, geometry.Identity())
	require.NoError(t, err)
	assert.Same(t, img, got)

	got, err = Frame(img, geometry.Homography{})
	require.NoError(t, err)
	assert.Same(t, img, got)

	got, err = Frame(img, geometry.Homography{1, 0, 5, 0, 1, 5, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 15, 15), got.Bounds())
}
