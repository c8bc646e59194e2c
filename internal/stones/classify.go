package stones

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/imaging"
)

// Classification is the per-intersection outcome for one board. All slices
// are row-major with Size*Size entries.
type Classification struct {
	Size      int              `json:"size"`
	Model     *Model           `json:"model"`
	Features  []Feature        `json:"features"`
	Contexts  []SpatialContext `json:"contexts"`
	Decisions []Decision       `json:"decisions"`
}

// Counts returns the number of intersections per final state.
func (c *Classification) Counts() map[State]int {
	out := map[State]int{Empty: 0, Black: 0, White: 0}
	for _, d := range c.Decisions {
		out[d.State]++
	}
	return out
}

// Classify extracts features at every intersection of b, calibrates, and
// decides each intersection, refining borderline calls by re-sampling.
func Classify(b *geometry.Board, cfg config.Config, logger *zap.Logger) (*Classification, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if b == nil || b.Image == nil || b.Size == 0 || len(b.Intersections) != b.Size*b.Size {
		return nil, failure.New(failure.StageFeatures, failure.KindInvalidInput, "incomplete board geometry")
	}

	lab, err := imaging.NewLabImage(b.Image)
	if err != nil {
		return nil, err
	}

	features := make([]Feature, len(b.Intersections))
	parallel(len(features), cfg.Workers, func(i int) {
		p := b.Intersections[i]
		features[i] = Extract(lab, p.X, p.Y, b.Spacing, cfg.Features)
	})

	sampler := func(i int) Sampler {
		p := b.Intersections[i]
		return func(dx, dy float64) Feature {
			return Extract(lab, p.X+dx, p.Y+dy, b.Spacing, cfg.Features)
		}
	}

	c, err := classify(features, b.Size, cfg, sampler)
	if err != nil {
		return nil, err
	}

	counts := c.Counts()
	var rejected, refined int
	for _, d := range c.Decisions {
		if d.Rejected() {
			rejected++
		}
		if d.Refined {
			refined++
		}
	}
	logger.Debug("classified board",
		zap.Int("size", c.Size),
		zap.Int("black", counts[Black]),
		zap.Int("white", counts[White]),
		zap.Int("empty", counts[Empty]),
		zap.Int("rejected", rejected),
		zap.Int("refined", refined),
		zap.Float64("median_empty", c.Model.MedianEmpty),
		zap.Float64("sigma_empty", c.Model.SigmaEmpty),
	)
	return c, nil
}

// ClassifyFeatures decides precomputed row-major features of a size x size
// board. There is no image to re-sample, so no refinement takes place.
func ClassifyFeatures(features []Feature, size int, cfg config.Config) (*Classification, error) {
	if size <= 0 || len(features) != size*size {
		return nil, failure.New(failure.StageClassification, failure.KindInvalidInput,
			"need %d features for a %dx%d board, got %d", size*size, size, size, len(features))
	}
	return classify(features, size, cfg, nil)
}

func classify(features []Feature, size int, cfg config.Config, sampler func(i int) Sampler) (*Classification, error) {
	model, err := Calibrate(features, cfg.Calibration, cfg.Scoring)
	if err != nil {
		return nil, err
	}
	contexts := Contexts(features, size, cfg.Scoring.EdgeBand)

	decisions := make([]Decision, len(features))
	parallel(len(features), cfg.Workers, func(i int) {
		sc := contexts[i]
		judge := func(f Feature) Decision {
			if !f.Valid {
				return model.invalidDecision(sc.Edge)
			}
			return Resolve(model.Decide(f, sc.Edge), f, sc, model, cfg.Policy)
		}

		d := judge(features[i])
		if sampler != nil && NeedsRefinement(d, cfg.Refine) {
			d = Refine(d, sampler(i), judge, cfg.Refine)
		}
		decisions[i] = d
	})

	return &Classification{
		Size:      size,
		Model:     model,
		Features:  features,
		Contexts:  contexts,
		Decisions: decisions,
	}, nil
}

// parallel runs fn(i) for i in [0,n) on at most workers goroutines
// (GOMAXPROCS when workers <= 0). Each call must write only its own index.
func parallel(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	// fn cannot fail; the group only bounds the goroutines.
	_ = g.Wait()
}
