package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/grid"
	"github.com/ironsheep/goban-reader/internal/stones"
)

var (
	wood       = color.NRGBA{R: 220, G: 180, B: 110, A: 255}
	lineInk    = color.NRGBA{R: 30, G: 25, B: 20, A: 255}
	blackStone = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	whiteStone = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
)

type stone struct {
	row, col int
	c        color.NRGBA
}

// renderBoard draws an n x n board with its first line at origin and the
// given stones; withLines false leaves the grid undrawn.
func renderBoard(side, n int, origin, spacing int, withLines bool, placed ...stone) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetNRGBA(x, y, wood)
		}
	}

	last := origin + (n-1)*spacing
	if withLines {
		for k := 0; k < n; k++ {
			p := origin + k*spacing
			for t := origin; t <= last+1; t++ {
				for w := 0; w < 2; w++ {
					img.SetNRGBA(p+w, t, lineInk)
					img.SetNRGBA(t, p+w, lineInk)
				}
			}
		}
	}

	r := spacing * 9 / 20
	for _, s := range placed {
		cx, cy := origin+s.col*spacing, origin+s.row*spacing
		for y := cy - r; y <= cy+r; y++ {
			for x := cx - r; x <= cx+r; x++ {
				if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
					img.SetNRGBA(x, y, s.c)
				}
			}
		}
	}
	return img
}

func candidates(origin, spacing float64, n int) []grid.Candidate {
	out := make([]grid.Candidate, n)
	for k := range out {
		out[k] = grid.Candidate{Position: origin + float64(k)*spacing, Weight: 1}
	}
	return out
}

// recorder is a diagnostics sink that keeps everything it receives.
type recorder struct {
	mu     sync.Mutex
	images map[string]image.Image
	stats  map[string]map[string]float64
}

func newRecorder() *recorder {
	return &recorder{images: map[string]image.Image{}, stats: map[string]map[string]float64{}}
}

func (r *recorder) Image(stage string, img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[stage] = img
}

func (r *recorder) Stats(stage string, stats map[string]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[stage] = stats
}

func TestRunFromCandidates(t *testing.T) {
	img := renderBoard(400, 9, 40, 40, false,
		stone{4, 4, blackStone},
		stone{2, 6, whiteStone},
	)
	rec := newRecorder()
	core, logs := observer.New(zap.DebugLevel)

	res, err := Run(Input{
		Vertical:   candidates(40, 40, 9),
		Horizontal: candidates(40, 40, 9),
		Image:      img,
	}, config.Default(), WithSink(rec), WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.Equal(t, 9, res.Size)
	require.Len(t, res.Intersections, 81)
	assert.Equal(t, config.Default().Geometry.CanonicalSpacing, res.Spacing)
	assert.Equal(t, map[stones.State]int{stones.Empty: 79, stones.Black: 1, stones.White: 1}, res.Counts())

	for i, p := range res.Intersections {
		assert.Equal(t, i/9, p.Row)
		assert.Equal(t, i%9, p.Col)
	}
	assert.Equal(t, stones.Black, res.At(4, 4).State)
	assert.Equal(t, "E5", res.At(4, 4).Coordinate)
	assert.Equal(t, stones.White, res.At(2, 6).State)
	assert.Equal(t, "G7", res.At(2, 6).Coordinate)

	// the canonical lattice coincides with the drawn one
	p := res.At(4, 4)
	assert.InDelta(t, 200, p.X, 0.5)
	assert.InDelta(t, 200, p.Y, 0.5)

	assert.Contains(t, rec.images, "rectified")
	assert.Contains(t, rec.images, "overlay")
	assert.Equal(t, res.Board.Image.Bounds(), rec.images["overlay"].Bounds())
	assert.Equal(t, 9.0, rec.stats["grid"]["size"])
	assert.Equal(t, 1.0, rec.stats["calibration"]["refit"])
	assert.Equal(t, 1.0, rec.stats["classification"]["black"])
	assert.Equal(t, 79.0, rec.stats["classification"]["empty"])

	assert.Equal(t, 1, logs.FilterMessage("inferred grid").Len())
	assert.Equal(t, 1, logs.FilterMessage("classified board").Len())
}

func TestRunFailurePropagates(t *testing.T) {
	rec := newRecorder()
	img := renderBoard(400, 9, 40, 40, false)

	tests := []struct {
		name     string
		in       Input
		wantErr  error
		wantStep failure.Stage
	}{
		{
			name:     "eight lines",
			in:       Input{Vertical: candidates(40, 40, 8), Horizontal: candidates(40, 40, 9), Image: img},
			wantErr:  failure.ErrInsufficientEvidence,
			wantStep: failure.StageGrid,
		},
		{
			name:     "axes disagree",
			in:       Input{Vertical: candidates(20, 25, 13), Horizontal: candidates(40, 40, 9), Image: img},
			wantErr:  failure.ErrGridMismatch,
			wantStep: failure.StageGrid,
		},
		{
			name:     "no photograph",
			in:       Input{Vertical: candidates(40, 40, 9), Horizontal: candidates(40, 40, 9)},
			wantErr:  failure.ErrInvalidInput,
			wantStep: failure.StageGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.in, config.Default(), WithSink(rec))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, tt.wantStep, failure.StageOf(err))
		})
	}
	assert.Empty(t, rec.images)
}

func TestReadDetectsTheGrid(t *testing.T) {
	img := renderBoard(400, 9, 40, 40, true,
		stone{4, 4, blackStone},
		stone{2, 6, whiteStone},
	)

	res, err := Read(img, geometry.Identity(), config.Default())
	require.NoError(t, err)

	require.Equal(t, 9, res.Size)
	require.Len(t, res.Intersections, 81)
	assert.Equal(t, stones.Black, res.At(4, 4).State)
	assert.Equal(t, stones.White, res.At(2, 6).State)
}

func TestReadPrewarped(t *testing.T) {
	// the photograph is the board shifted by (-10,-10); h shifts it back
	img := renderBoard(400, 9, 30, 40, true,
		stone{4, 4, blackStone},
		stone{2, 6, whiteStone},
	)
	shift := geometry.Homography{1, 0, 10, 0, 1, 10, 0, 0, 1}

	res, err := Read(img, shift, config.Default())
	require.NoError(t, err)

	require.Equal(t, 9, res.Size)
	assert.Equal(t, stones.Black, res.At(4, 4).State)
	assert.Equal(t, stones.White, res.At(2, 6).State)

	// photograph (190,190) is the centre intersection of the rectified board
	got, ok := res.Board.Homography.Apply(geometry.Point{X: 190, Y: 190})
	require.True(t, ok)
	want := res.At(4, 4)
	assert.InDelta(t, want.X, got.X, 3)
	assert.InDelta(t, want.Y, got.Y, 3)
}

func TestReadInvalidInput(t *testing.T) {
	_, err := Read(nil, geometry.Identity(), config.Default())
	assert.True(t, errors.Is(err, failure.ErrInvalidInput))
	assert.Equal(t, failure.StageDetection, failure.StageOf(err))

	_, err = Read(image.NewNRGBA(image.Rect(0, 0, 0, 0)), geometry.Homography{}, config.Default())
	assert.True(t, errors.Is(err, failure.ErrInvalidInput))
}

func TestGrayPhotographIsRejected(t *testing.T) {
	board := renderBoard(400, 9, 40, 40, true, stone{4, 4, blackStone})
	gray := image.NewGray(board.Bounds())
	draw.Draw(gray, gray.Bounds(), board, board.Bounds().Min, draw.Src)

	res, err := Run(Input{
		Vertical:   candidates(40, 40, 9),
		Horizontal: candidates(40, 40, 9),
		Image:      gray,
	}, config.Default())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, failure.ErrInvalidInput), "got %v", err)

	res, err = Read(gray, geometry.Identity(), config.Default())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, failure.ErrInvalidInput), "got %v", err)
}

func TestFrameSize(t *testing.T) {
	b := image.Rect(0, 0, 300, 200)

	w, h := frameSize(b, geometry.Identity())
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	w, h = frameSize(b, geometry.Homography{1, 0, 10.5, 0, 1, -50, 0, 0, 1})
	assert.Equal(t, 311, w)
	assert.Equal(t, 150, h)

	w, h = frameSize(b, geometry.Homography{10, 0, 0, 0, 10, 0, 0, 0, 1})
	assert.Equal(t, 600, w, "clipped to twice the larger side")
	assert.Equal(t, 600, h)
}

func TestDiagramAndCoordinate(t *testing.T) {
	res := &Result{Size: 3, Intersections: make([]Intersection, 9)}
	res.Intersections[0].State = stones.Black
	res.Intersections[4].State = stones.White

	assert.Equal(t, "X . .\n. O .\n. . .\n", res.Diagram())
	assert.Equal(t, 3, strings.Count(res.Diagram(), "\n"))

	assert.Equal(t, "A19", Coordinate(0, 0, 19))
	assert.Equal(t, "J1", Coordinate(18, 8, 19), "I is skipped")
	assert.Equal(t, "T1", Coordinate(18, 18, 19))
	assert.Equal(t, "4-20", Coordinate(4, 20, 19))
}
