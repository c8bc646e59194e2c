package grid

import (
	"math"
	"sort"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
)

// Hypothesis is a fitted set of N line positions along one axis.
//
// Positions are strictly increasing and each consecutive gap lies within the
// snap tolerance of Spacing on either side.
type Hypothesis struct {
	Size      int       `json:"size"`
	Spacing   float64   `json:"spacing"`
	Origin    float64   `json:"origin"`
	Positions []float64 `json:"positions"`
	MeanError float64   `json:"mean_error"` // mean |snap error| / spacing
	Coverage  int       `json:"coverage"`   // candidates on any multiple of spacing from Origin
	Score     float64   `json:"score"`      // lower is better
}

// Grid is a validated board grid: both axes agree on the size.
type Grid struct {
	Size       int        `json:"size"`
	Vertical   Hypothesis `json:"vertical"`   // x positions of the vertical lines
	Horizontal Hypothesis `json:"horizontal"` // y positions of the horizontal lines
}

// Infer fits both axes and succeeds only when they agree on the board size.
// Any failure returns a nil Grid; there is no partial result.
func Infer(vertical, horizontal []Candidate, cfg config.GridConfig) (*Grid, error) {
	v, err := InferAxis(vertical, cfg)
	if err != nil {
		return nil, axisFailure("vertical", err)
	}
	h, err := InferAxis(horizontal, cfg)
	if err != nil {
		return nil, axisFailure("horizontal", err)
	}

	if v.Size != h.Size {
		return nil, failure.New(failure.StageGrid, failure.KindGridMismatch,
			"vertical axis resolves to %d lines, horizontal to %d", v.Size, h.Size)
	}

	return &Grid{Size: v.Size, Vertical: *v, Horizontal: *h}, nil
}

func axisFailure(axis string, err error) error {
	kind := failure.KindOf(err)
	if kind == 0 {
		kind = failure.KindGridMismatch
	}
	return failure.Wrap(failure.StageGrid, kind, err, "%s axis", axis)
}

// InferAxis picks the best board size and line positions for one axis.
//
// Sizes are tried largest first. For every size and every candidate as the
// origin, the ideal progression origin + k*s is snapped to the candidates;
// surviving fits are scored by normalised snap error minus a coverage bonus.
// A smaller size only displaces a larger one when its score is better by
// more than cfg.LargerSizePreference of the larger size's score: boards are
// far more often under-detected than over-detected.
func InferAxis(cands []Candidate, cfg config.GridConfig) (*Hypothesis, error) {
	if len(cands) < cfg.MinCandidates {
		return nil, failure.New(failure.StageGrid, failure.KindInsufficientEvidence,
			"need at least %d candidates, got %d", cfg.MinCandidates, len(cands))
	}

	sorted := SortCandidates(cands)
	spacing := EstimateSpacing(sorted, cfg.SpacingBinWidth)
	if spacing < cfg.MinSpacing {
		return nil, failure.New(failure.StageGrid, failure.KindInsufficientEvidence,
			"degenerate spacing %.3f px", spacing)
	}

	sizes := append([]int(nil), cfg.Sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	var best *Hypothesis
	for _, n := range sizes {
		h := bestForSize(sorted, n, spacing, cfg)
		if h == nil {
			continue
		}
		if best == nil || h.Score < best.Score-cfg.LargerSizePreference*math.Abs(best.Score) {
			best = h
		}
	}

	if best == nil {
		return nil, failure.New(failure.StageGrid, failure.KindGridMismatch,
			"no board size fits %d candidates at spacing %.1f px", len(sorted), spacing)
	}
	return best, nil
}

// bestForSize returns the lowest scoring fit of n lines, or nil. Ties keep
// the earliest origin.
func bestForSize(cands []Candidate, n int, spacing float64, cfg config.GridConfig) *Hypothesis {
	var best *Hypothesis
	for _, c := range cands {
		h := fit(cands, c.Position, n, spacing, cfg)
		if h == nil {
			continue
		}
		if best == nil || h.Score < best.Score {
			best = h
		}
	}
	return best
}

// fit snaps origin + k*spacing, k in [0,n), to the nearest candidates.
func fit(cands []Candidate, origin float64, n int, spacing float64, cfg config.GridConfig) *Hypothesis {
	tol := cfg.SnapTolerance * spacing
	positions := make([]float64, n)

	var errSum, prev float64
	for k := 0; k < n; k++ {
		ideal := origin + float64(k)*spacing
		snapped := cands[nearest(cands, ideal)].Position

		d := math.Abs(snapped - ideal)
		if d > tol {
			return nil
		}
		rounded := math.Round(snapped)
		if k > 0 && rounded == prev {
			return nil
		}
		prev = rounded

		positions[k] = snapped
		errSum += d
	}

	coverage := 0
	for _, c := range cands {
		k := math.Round((c.Position - origin) / spacing)
		if math.Abs(c.Position-(origin+k*spacing)) <= tol {
			coverage++
		}
	}

	meanErr := errSum / float64(n) / spacing
	return &Hypothesis{
		Size:      n,
		Spacing:   spacing,
		Origin:    origin,
		Positions: positions,
		MeanError: meanErr,
		Coverage:  coverage,
		Score:     meanErr - cfg.CoverageWeight*float64(coverage),
	}
}
