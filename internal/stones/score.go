package stones

import "math"

// Z returns the clamped z-score of f's DeltaL against the empty model.
func (m *Model) Z(f Feature) float64 {
	z := (f.DeltaL - m.MedianEmpty) / m.SigmaEmpty
	return clamp(z, -m.Weights.ZClamp, m.Weights.ZClamp)
}

// ChromaPenalty returns ChromaSq relative to the chroma threshold, capped.
func (m *Model) ChromaPenalty(f Feature) float64 {
	return math.Min(f.ChromaSq/m.ChromaThreshold, m.Weights.ChromaPenaltyCap)
}

// Score evaluates the three hypotheses for f.
func (m *Model) Score(f Feature) Scores {
	w := m.Weights
	z := m.Z(f)
	p := m.ChromaPenalty(f)
	return Scores{
		Black: w.BlackZ*(-z) + w.BlackSupport*(f.DarkFrac-f.BrightFrac) - w.ChromaPenalty*p,
		White: w.WhiteZ*z + w.WhiteSupport*(f.BrightFrac-f.DarkFrac) - w.ChromaPenalty*p,
		Empty: w.EmptyBias - w.EmptyZ*math.Abs(z) - w.EmptySupport*f.Support(),
	}
}

// RequiredMargin is the margin a call at the given edge level needs for
// full confidence.
func (m *Model) RequiredMargin(e EdgeLevel) float64 {
	return m.Weights.BaseMargin * (1 + m.Weights.EdgePenalty*float64(e))
}

// Decide scores f and picks the best hypothesis, before any policy check.
// Exact ties resolve to Empty, then Black.
func (m *Model) Decide(f Feature, e EdgeLevel) Decision {
	sc := m.Score(f)

	best := Empty
	for _, s := range []State{Black, White} {
		if sc.Of(s) > sc.Of(best) {
			best = s
		}
	}
	runnerUp := math.Inf(-1)
	for _, s := range []State{Empty, Black, White} {
		if s != best && sc.Of(s) > runnerUp {
			runnerUp = sc.Of(s)
		}
	}

	margin := sc.Of(best) - runnerUp
	required := m.RequiredMargin(e)
	conf := clamp(margin/required, 0, 1)
	if best != Empty {
		conf *= 1 - m.Weights.ChromaConfidence*math.Min(m.ChromaPenalty(f), 1)
	}

	return Decision{
		State:          best,
		Proposed:       best,
		Scores:         sc,
		Z:              m.Z(f),
		BestScore:      sc.Of(best),
		Margin:         margin,
		RequiredMargin: required,
		Confidence:     conf,
	}
}

// invalidDecision is the call for an intersection without usable evidence.
func (m *Model) invalidDecision(e EdgeLevel) Decision {
	return Decision{
		State:          Empty,
		Proposed:       Empty,
		RequiredMargin: m.RequiredMargin(e),
		Reason:         ReasonInvalidFeature,
	}
}
