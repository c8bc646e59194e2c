package stones

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
)

// renderedBoard is a line-free 9x9 board of 400x400 pixels with intersections
// at 40 + 40k, a black stone at (4,4) and a white stone at (2,6).
func renderedBoard() *geometry.Board {
	img := woodImage(400, 400)
	drawStone(img, 200, 200, 18, blackStone)
	drawStone(img, 280, 120, 18, whiteStone)

	b := &geometry.Board{Image: img, Homography: geometry.Identity(), Size: 9, Spacing: 40}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			b.Intersections = append(b.Intersections, geometry.Point{X: 40 + 40*float64(c), Y: 40 + 40*float64(r)})
		}
	}
	return b
}

func TestClassifyRenderedBoard(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := renderedBoard()

	c, err := Classify(b, config.Default(), zap.New(core))
	require.NoError(t, err)

	require.Equal(t, 9, c.Size)
	require.Len(t, c.Decisions, 81)
	require.Len(t, c.Features, 81)
	require.Len(t, c.Contexts, 81)

	assert.Equal(t, map[State]int{Empty: 79, Black: 1, White: 1}, c.Counts())
	assert.Equal(t, Black, c.Decisions[b.Index(4, 4)].State)
	assert.Equal(t, White, c.Decisions[b.Index(2, 6)].State)
	assert.Greater(t, c.Decisions[b.Index(4, 4)].Confidence, 0.9)

	for i, d := range c.Decisions {
		assert.GreaterOrEqual(t, d.Confidence, 0.0, "index %d", i)
		assert.LessOrEqual(t, d.Confidence, 1.0, "index %d", i)
		assert.Equal(t, i/9, c.Contexts[i].Row)
		assert.Equal(t, i%9, c.Contexts[i].Col)
	}

	assert.Equal(t, cfgMinSigma(), c.Model.SigmaEmpty, "uniform wood floors the spread")
	assert.Equal(t, 79, c.Model.EmptySubset)

	entries := logs.FilterMessage("classified board").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["black"])
	assert.EqualValues(t, 79, fields["empty"])
}

func cfgMinSigma() float64 {
	return config.Default().Calibration.MinSigma
}

func TestClassifyIsDeterministicAcrossWorkerCounts(t *testing.T) {
	b := renderedBoard()

	cfg := config.Default()
	cfg.Workers = 1
	serial, err := Classify(b, cfg, nil)
	require.NoError(t, err)

	cfg.Workers = 8
	wide, err := Classify(b, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, serial.Decisions, wide.Decisions)
}

func TestClassifyFeatures(t *testing.T) {
	fs := emptyFeatures(81)
	fs[40] = Feature{DeltaL: -6, DarkFrac: 0.9, ChromaSq: 4, Valid: true}
	fs[0] = Feature{BackgroundSamples: 2}

	c, err := ClassifyFeatures(fs, 9, config.Default())
	require.NoError(t, err)

	assert.Equal(t, map[State]int{Empty: 80, Black: 1, White: 0}, c.Counts())
	assert.Equal(t, Black, c.Decisions[40].State)
	assert.False(t, c.Decisions[40].Refined)

	invalid := c.Decisions[0]
	assert.Equal(t, Empty, invalid.State)
	assert.Equal(t, ReasonInvalidFeature, invalid.Reason)
	assert.Zero(t, invalid.Confidence)
	assert.Equal(t, OnEdge, c.Contexts[0].Edge)
}

func TestClassifyInvalidInput(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name string
		run  func() error
	}{
		{"nil board", func() error { _, err := Classify(nil, cfg, nil); return err }},
		{"no image", func() error {
			b := renderedBoard()
			b.Image = nil
			_, err := Classify(b, cfg, nil)
			return err
		}},
		{"short intersections", func() error {
			b := renderedBoard()
			b.Intersections = b.Intersections[:80]
			_, err := Classify(b, cfg, nil)
			return err
		}},
		{"feature count", func() error { _, err := ClassifyFeatures(emptyFeatures(80), 9, cfg); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.Is(err, failure.ErrInvalidInput), "got %v", err)
		})
	}
}
