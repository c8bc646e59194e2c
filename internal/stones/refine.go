package stones

import (
	"math"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/geometry"
)

// Sampler re-extracts the feature of one intersection at a pixel offset
// from its nominal position.
type Sampler func(dx, dy float64) Feature

// Judge turns a feature into a resolved decision for one fixed
// intersection (scoring plus policy).
type Judge func(f Feature) Decision

// NeedsRefinement reports whether d is borderline: an Empty call with a
// hint of signal, or a stone call with a thin margin.
func NeedsRefinement(d Decision, cfg config.RefineConfig) bool {
	if !cfg.Enabled || d.Reason == ReasonInvalidFeature {
		return false
	}
	if d.State == Empty {
		return math.Abs(d.Z) >= cfg.EmptyHintZ
	}
	return d.Margin < cfg.BorderlineFactor*d.RequiredMargin
}

// EffectiveMargin is the margin of an unrejected call and 0 otherwise.
func EffectiveMargin(d Decision) float64 {
	if d.Reason != ReasonNone {
		return 0
	}
	return d.Margin
}

// Refine searches the (2R+1)^2 grid of offsets around the nominal position
// and returns the best-margin candidate when it beats the original by more
// than a fraction of the required margin: cfg.ImproveFraction normally, the
// larger cfg.PromoteFraction when it would turn an Empty call into a stone.
// Otherwise orig is returned unchanged. The returned decision never has a
// smaller effective margin than orig.
func Refine(orig Decision, sample Sampler, judge Judge, cfg config.RefineConfig) Decision {
	var best Decision
	found := false
	for dy := -cfg.Radius; dy <= cfg.Radius; dy++ {
		for dx := -cfg.Radius; dx <= cfg.Radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ox, oy := float64(dx)*cfg.Step, float64(dy)*cfg.Step
			d := judge(sample(ox, oy))
			d.Offset = geometry.Point{X: ox, Y: oy}
			if !found || EffectiveMargin(d) > EffectiveMargin(best) {
				best, found = d, true
			}
		}
	}
	if !found {
		return orig
	}

	frac := cfg.ImproveFraction
	if orig.State == Empty && best.State != Empty {
		frac = cfg.PromoteFraction
	}
	if EffectiveMargin(best) > EffectiveMargin(orig)+frac*orig.RequiredMargin {
		best.Refined = true
		return best
	}
	return orig
}
