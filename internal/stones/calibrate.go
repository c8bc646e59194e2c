package stones

import (
	"math"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/failure"
)

// Model is the per-photograph notion of what an empty intersection looks
// like, plus the weights used to score against it. It is read-only once
// Calibrate returns it.
type Model struct {
	MedianEmpty     float64              `json:"median_empty"`
	SigmaEmpty      float64              `json:"sigma_empty"`
	ChromaThreshold float64              `json:"chroma_threshold"`
	Weights         config.ScoringConfig `json:"weights"`

	ValidFeatures int  `json:"valid_features"`
	EmptySubset   int  `json:"empty_subset"`
	Refit         bool `json:"refit"` // center/spread come from the likely-empty subset
}

// Calibrate builds the Model from every feature of one photograph.
//
// The first pass takes the median and scaled MAD of DeltaL over all valid
// features. Features close to that center and without dark or bright
// support form the likely-empty subset; when it is large enough, center and
// spread are recomputed from it alone, so a board already holding many
// stones does not drag the empty estimate. The chroma threshold is the
// median ChromaSq of the subset.
func Calibrate(features []Feature, cal config.CalibrationConfig, weights config.ScoringConfig) (*Model, error) {
	valid := make([]Feature, 0, len(features))
	for _, f := range features {
		if f.Valid {
			valid = append(valid, f)
		}
	}

	switch {
	case len(valid) == 0:
		return nil, failure.New(failure.StageCalibration, failure.KindCalibrationFailure,
			"no valid features among %d intersections", len(features))
	case len(valid) < cal.MinValidFeatures:
		return nil, failure.New(failure.StageCalibration, failure.KindInsufficientEvidence,
			"need at least %d valid features, got %d", cal.MinValidFeatures, len(valid))
	}

	deltas := make([]float64, len(valid))
	for i, f := range valid {
		deltas[i] = f.DeltaL
	}
	center, spread := robustSpread(deltas, cal.MinSigma)

	var subsetDeltas, subsetChroma []float64
	for _, f := range valid {
		if math.Abs(f.DeltaL-center) <= cal.EmptyWindow*spread && f.Support() <= cal.EmptySupportMax {
			subsetDeltas = append(subsetDeltas, f.DeltaL)
			subsetChroma = append(subsetChroma, f.ChromaSq)
		}
	}

	m := &Model{
		MedianEmpty:   center,
		SigmaEmpty:    spread,
		Weights:       weights,
		ValidFeatures: len(valid),
		EmptySubset:   len(subsetDeltas),
	}
	if len(subsetDeltas) >= cal.MinEmptySubset {
		m.MedianEmpty, m.SigmaEmpty = robustSpread(subsetDeltas, cal.MinSigma)
		m.Refit = true
	}

	chroma := subsetChroma
	if len(chroma) == 0 {
		chroma = make([]float64, len(valid))
		for i, f := range valid {
			chroma[i] = f.ChromaSq
		}
	}
	m.ChromaThreshold = math.Max(median(chroma), cal.MinChromaThreshold)

	return m, nil
}
