package pipeline

import (
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/detection"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/grid"
	"github.com/ironsheep/goban-reader/internal/imaging"
	"github.com/ironsheep/goban-reader/internal/stones"
)

// Input is everything the core needs for one photograph.
type Input struct {
	Vertical   []grid.Candidate
	Horizontal []grid.Candidate

	// Image is the photograph; Homography maps it into the frame the
	// candidates were measured in. The zero Homography means identity.
	Image      image.Image
	Homography geometry.Homography
}

// Run infers the grid, rectifies the board and classifies every
// intersection. Any failure aborts the read with no partial result.
func Run(in Input, cfg config.Config, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	if in.Image == nil || in.Image.Bounds().Empty() {
		return nil, failure.New(failure.StageGeometry, failure.KindInvalidInput, "no photograph")
	}
	if err := imaging.CheckChannels(in.Image); err != nil {
		return nil, err
	}
	h := in.Homography
	if h == (geometry.Homography{}) {
		h = geometry.Identity()
	}

	g, err := grid.Infer(in.Vertical, in.Horizontal, cfg.Grid)
	if err != nil {
		o.logger.Debug("grid inference failed",
			zap.Int("vertical_candidates", len(in.Vertical)),
			zap.Int("horizontal_candidates", len(in.Horizontal)),
			zap.Error(err))
		return nil, err
	}
	o.logger.Debug("inferred grid",
		zap.Int("size", g.Size),
		zap.Float64("vertical_spacing", g.Vertical.Spacing),
		zap.Float64("horizontal_spacing", g.Horizontal.Spacing))
	o.sink.Stats("grid", gridStats(g))

	board, err := geometry.Assemble(in.Image, h, g, cfg.Geometry)
	if err != nil {
		return nil, err
	}
	o.sink.Image("rectified", board.Image)

	c, err := stones.Classify(board, cfg, o.logger)
	if err != nil {
		return nil, err
	}
	o.sink.Stats("calibration", calibrationStats(c.Model))
	o.sink.Stats("classification", classificationStats(c))

	res := newResult(g, board, c)
	if o.observed() {
		o.sink.Image("overlay", res.Overlay(imaging.OverlayOptions{ShowLabels: true}))
	}
	return res, nil
}

// Read runs the line clusterer on the photograph, pre-warped through h
// unless h is the identity (or zero), and then Run on its candidates.
func Read(img image.Image, h geometry.Homography, cfg config.Config, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	if img == nil || img.Bounds().Empty() {
		return nil, failure.New(failure.StageDetection, failure.KindInvalidInput, "empty image")
	}
	if err := imaging.CheckChannels(img); err != nil {
		return nil, err
	}
	if h == (geometry.Homography{}) {
		h = geometry.Identity()
	}

	frame, err := Frame(img, h)
	if err != nil {
		return nil, err
	}

	lines, err := detection.DetectAxisLines(frame, cfg.Detection)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("detected lines",
		zap.Int("peaks", len(lines.Lines)),
		zap.Int("vertical_candidates", len(lines.Vertical)),
		zap.Int("horizontal_candidates", len(lines.Horizontal)))

	return Run(Input{
		Vertical:   lines.Vertical,
		Horizontal: lines.Horizontal,
		Image:      img,
		Homography: h,
	}, cfg, opts...)
}
