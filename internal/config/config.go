package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config is the single tuning aggregate passed into every pipeline stage.
//
// A Config is a plain value: copying it yields an independent configuration,
// so sweeps can build many variants concurrently.
type Config struct {
	Detection   DetectionConfig   `mapstructure:"detection" json:"detection"`
	Grid        GridConfig        `mapstructure:"grid" json:"grid"`
	Geometry    GeometryConfig    `mapstructure:"geometry" json:"geometry"`
	Features    FeatureConfig     `mapstructure:"features" json:"features"`
	Calibration CalibrationConfig `mapstructure:"calibration" json:"calibration"`
	Scoring     ScoringConfig     `mapstructure:"scoring" json:"scoring"`
	Policy      PolicyConfig      `mapstructure:"policy" json:"policy"`
	Refine      RefineConfig      `mapstructure:"refine" json:"refine"`

	// Workers bounds the per-intersection worker pool. 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" json:"workers"`
}

// DetectionConfig tunes the line clusterer that produces axis candidates.
type DetectionConfig struct {
	BlurRadius       float64 `mapstructure:"blur_radius" json:"blur_radius"`             // Gaussian radius before Sobel
	EdgeThreshold    uint8   `mapstructure:"edge_threshold" json:"edge_threshold"`       // Sobel magnitude cut (0-255)
	MaxTiltDegrees   float64 `mapstructure:"max_tilt_degrees" json:"max_tilt_degrees"`   // accepted deviation from the axes
	AngleStepDegrees float64 `mapstructure:"angle_step_degrees" json:"angle_step_degrees"`
	MinLineFraction  float64 `mapstructure:"min_line_fraction" json:"min_line_fraction"` // min votes as a fraction of the image extent
	PeakRadius       int     `mapstructure:"peak_radius" json:"peak_radius"`             // rho neighbourhood for local maxima
	MergeDistance    float64 `mapstructure:"merge_distance" json:"merge_distance"`       // px; closer peaks form one candidate
	MaxLines         int     `mapstructure:"max_lines" json:"max_lines"`                 // per axis, strongest first
}

// GridConfig tunes grid inference.
type GridConfig struct {
	MinCandidates        int     `mapstructure:"min_candidates" json:"min_candidates"`
	SpacingBinWidth      float64 `mapstructure:"spacing_bin_width" json:"spacing_bin_width"`
	MinSpacing           float64 `mapstructure:"min_spacing" json:"min_spacing"`
	SnapTolerance        float64 `mapstructure:"snap_tolerance" json:"snap_tolerance"` // fraction of spacing
	CoverageWeight       float64 `mapstructure:"coverage_weight" json:"coverage_weight"`
	LargerSizePreference float64 `mapstructure:"larger_size_preference" json:"larger_size_preference"`
	Sizes                []int   `mapstructure:"sizes" json:"sizes"`
}

// GeometryConfig tunes the rectified output frame.
type GeometryConfig struct {
	CanonicalSpacing float64 `mapstructure:"canonical_spacing" json:"canonical_spacing"` // px between lines after rectification
	MarginCells      float64 `mapstructure:"margin_cells" json:"margin_cells"`           // border around the outer lines, in cells
	SmoothRadius     float64 `mapstructure:"smooth_radius" json:"smooth_radius"`         // 0 disables
}

// FeatureConfig tunes per-intersection sampling. Radii and distances are
// fractions of the canonical spacing.
type FeatureConfig struct {
	InnerRadius          float64 `mapstructure:"inner_radius" json:"inner_radius"`
	BackgroundDistance   float64 `mapstructure:"background_distance" json:"background_distance"`
	BackgroundRadius     float64 `mapstructure:"background_radius" json:"background_radius"`
	MinBackgroundSamples int     `mapstructure:"min_background_samples" json:"min_background_samples"`
	MinRadiusPx          float64 `mapstructure:"min_radius_px" json:"min_radius_px"`
	SupportDelta         float64 `mapstructure:"support_delta" json:"support_delta"` // L units
	NeutralA             float64 `mapstructure:"neutral_a" json:"neutral_a"`
	NeutralB             float64 `mapstructure:"neutral_b" json:"neutral_b"`
}

// CalibrationConfig tunes the per-photograph empty model.
type CalibrationConfig struct {
	MinValidFeatures   int     `mapstructure:"min_valid_features" json:"min_valid_features"`
	MinSigma           float64 `mapstructure:"min_sigma" json:"min_sigma"`
	EmptyWindow        float64 `mapstructure:"empty_window" json:"empty_window"` // spreads around the first-pass center
	EmptySupportMax    float64 `mapstructure:"empty_support_max" json:"empty_support_max"`
	MinEmptySubset     int     `mapstructure:"min_empty_subset" json:"min_empty_subset"`
	MinChromaThreshold float64 `mapstructure:"min_chroma_threshold" json:"min_chroma_threshold"`
}

// ScoringConfig holds the hypothesis weights and margin requirements.
type ScoringConfig struct {
	ZClamp           float64 `mapstructure:"z_clamp" json:"z_clamp"`
	BlackZ           float64 `mapstructure:"black_z" json:"black_z"`
	BlackSupport     float64 `mapstructure:"black_support" json:"black_support"`
	WhiteZ           float64 `mapstructure:"white_z" json:"white_z"`
	WhiteSupport     float64 `mapstructure:"white_support" json:"white_support"`
	ChromaPenalty    float64 `mapstructure:"chroma_penalty" json:"chroma_penalty"`
	ChromaPenaltyCap float64 `mapstructure:"chroma_penalty_cap" json:"chroma_penalty_cap"`
	EmptyBias        float64 `mapstructure:"empty_bias" json:"empty_bias"`
	EmptyZ           float64 `mapstructure:"empty_z" json:"empty_z"`
	EmptySupport     float64 `mapstructure:"empty_support" json:"empty_support"`
	ChromaConfidence float64 `mapstructure:"chroma_confidence" json:"chroma_confidence"`
	BaseMargin       float64 `mapstructure:"base_margin" json:"base_margin"`
	EdgePenalty      float64 `mapstructure:"edge_penalty" json:"edge_penalty"`
	EdgeBand         int     `mapstructure:"edge_band" json:"edge_band"` // rows/cols counted as near-edge
}

// PolicyConfig holds the reject-to-empty thresholds.
type PolicyConfig struct {
	MinAbsZ                 float64 `mapstructure:"min_abs_z" json:"min_abs_z"`
	MinAbsZEdge             float64 `mapstructure:"min_abs_z_edge" json:"min_abs_z_edge"`
	LargeBoardSize          int     `mapstructure:"large_board_size" json:"large_board_size"`
	MinBlackConfidenceLarge float64 `mapstructure:"min_black_confidence_large" json:"min_black_confidence_large"`
	MinDarkSupport          float64 `mapstructure:"min_dark_support" json:"min_dark_support"`
	MinBrightSupport        float64 `mapstructure:"min_bright_support" json:"min_bright_support"`
	MinSupportAdvantage     float64 `mapstructure:"min_support_advantage" json:"min_support_advantage"`
	WhiteArtifactChroma     float64 `mapstructure:"white_artifact_chroma" json:"white_artifact_chroma"` // fraction of the chroma threshold
	WhiteArtifactMinBright  float64 `mapstructure:"white_artifact_min_bright" json:"white_artifact_min_bright"`
	EdgeNeighborZ           float64 `mapstructure:"edge_neighbor_z" json:"edge_neighbor_z"`
	EdgeStrongZ             float64 `mapstructure:"edge_strong_z" json:"edge_strong_z"`
}

// RefineConfig tunes the local offset search for borderline decisions.
type RefineConfig struct {
	Enabled          bool    `mapstructure:"enabled" json:"enabled"`
	Step             float64 `mapstructure:"step" json:"step"` // px
	Radius           int     `mapstructure:"radius" json:"radius"`
	EmptyHintZ       float64 `mapstructure:"empty_hint_z" json:"empty_hint_z"`
	BorderlineFactor float64 `mapstructure:"borderline_factor" json:"borderline_factor"`
	ImproveFraction  float64 `mapstructure:"improve_fraction" json:"improve_fraction"`
	PromoteFraction  float64 `mapstructure:"promote_fraction" json:"promote_fraction"`
}

// Default returns the stock tuning. config/defaults.yaml mirrors it.
func Default() Config {
	return Config{
		Detection: DetectionConfig{
			BlurRadius:       1.0,
			EdgeThreshold:    96,
			MaxTiltDegrees:   3,
			AngleStepDegrees: 0.5,
			MinLineFraction:  0.3,
			PeakRadius:       2,
			MergeDistance:    4,
			MaxLines:         80,
		},
		Grid: GridConfig{
			MinCandidates:        9,
			SpacingBinWidth:      4,
			MinSpacing:           2,
			SnapTolerance:        0.25,
			CoverageWeight:       0.01,
			LargerSizePreference: 0.15,
			Sizes:                []int{19, 13, 9},
		},
		Geometry: GeometryConfig{
			CanonicalSpacing: 40,
			MarginCells:      1,
			SmoothRadius:     0.8,
		},
		Features: FeatureConfig{
			InnerRadius:          0.25,
			BackgroundDistance:   0.62,
			BackgroundRadius:     0.08,
			MinBackgroundSamples: 5,
			MinRadiusPx:          1.5,
			SupportDelta:         12,
			NeutralA:             0,
			NeutralB:             0,
		},
		Calibration: CalibrationConfig{
			MinValidFeatures:   8,
			MinSigma:           1,
			EmptyWindow:        2.5,
			EmptySupportMax:    0.35,
			MinEmptySubset:     8,
			MinChromaThreshold: 25,
		},
		Scoring: ScoringConfig{
			ZClamp:           8,
			BlackZ:           1,
			BlackSupport:     3,
			WhiteZ:           1,
			WhiteSupport:     3,
			ChromaPenalty:    1.5,
			ChromaPenaltyCap: 2,
			EmptyBias:        2.5,
			EmptyZ:           0.5,
			EmptySupport:     1,
			ChromaConfidence: 0.3,
			BaseMargin:       1,
			EdgePenalty:      0.5,
			EdgeBand:         1,
		},
		Policy: PolicyConfig{
			MinAbsZ:                 2.5,
			MinAbsZEdge:             3.5,
			LargeBoardSize:          13,
			MinBlackConfidenceLarge: 0.5,
			MinDarkSupport:          0.3,
			MinBrightSupport:        0.25,
			MinSupportAdvantage:     0.15,
			WhiteArtifactChroma:     0.5,
			WhiteArtifactMinBright:  0.6,
			EdgeNeighborZ:           1.5,
			EdgeStrongZ:             6,
		},
		Refine: RefineConfig{
			Enabled:          true,
			Step:             1,
			Radius:           2,
			EmptyHintZ:       1.5,
			BorderlineFactor: 1.5,
			ImproveFraction:  0.1,
			PromoteFraction:  0.5,
		},
	}
}

// Validate reports every out-of-range parameter at once.
func (c Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	d := c.Detection
	check(d.BlurRadius >= 0, "detection.blur_radius must be >= 0, got %v", d.BlurRadius)
	check(d.MaxTiltDegrees >= 0 && d.MaxTiltDegrees < 45, "detection.max_tilt_degrees must be in [0,45), got %v", d.MaxTiltDegrees)
	check(d.AngleStepDegrees > 0, "detection.angle_step_degrees must be > 0, got %v", d.AngleStepDegrees)
	check(d.MinLineFraction > 0 && d.MinLineFraction <= 1, "detection.min_line_fraction must be in (0,1], got %v", d.MinLineFraction)
	check(d.PeakRadius >= 1, "detection.peak_radius must be >= 1, got %d", d.PeakRadius)
	check(d.MergeDistance >= 0, "detection.merge_distance must be >= 0, got %v", d.MergeDistance)
	check(d.MaxLines > 0, "detection.max_lines must be > 0, got %d", d.MaxLines)

	g := c.Grid
	check(g.MinCandidates >= 2, "grid.min_candidates must be >= 2, got %d", g.MinCandidates)
	check(g.SpacingBinWidth > 0, "grid.spacing_bin_width must be > 0, got %v", g.SpacingBinWidth)
	check(g.MinSpacing > 0, "grid.min_spacing must be > 0, got %v", g.MinSpacing)
	check(g.SnapTolerance > 0 && g.SnapTolerance < 0.5, "grid.snap_tolerance must be in (0,0.5), got %v", g.SnapTolerance)
	check(g.CoverageWeight >= 0, "grid.coverage_weight must be >= 0, got %v", g.CoverageWeight)
	check(g.LargerSizePreference >= 0, "grid.larger_size_preference must be >= 0, got %v", g.LargerSizePreference)
	check(len(g.Sizes) > 0, "grid.sizes must not be empty")
	for _, n := range g.Sizes {
		check(n == 9 || n == 13 || n == 19, "grid.sizes: unsupported board size %d", n)
	}

	geo := c.Geometry
	check(geo.CanonicalSpacing >= 8, "geometry.canonical_spacing must be >= 8, got %v", geo.CanonicalSpacing)
	check(geo.MarginCells >= 0.5, "geometry.margin_cells must be >= 0.5, got %v", geo.MarginCells)
	check(geo.SmoothRadius >= 0, "geometry.smooth_radius must be >= 0, got %v", geo.SmoothRadius)

	f := c.Features
	check(f.InnerRadius > 0 && f.InnerRadius < 0.5, "features.inner_radius must be in (0,0.5), got %v", f.InnerRadius)
	check(f.BackgroundDistance > f.InnerRadius, "features.background_distance must exceed features.inner_radius")
	check(f.BackgroundRadius > 0, "features.background_radius must be > 0, got %v", f.BackgroundRadius)
	check(f.MinBackgroundSamples >= 1 && f.MinBackgroundSamples <= 8, "features.min_background_samples must be in [1,8], got %d", f.MinBackgroundSamples)
	check(f.MinRadiusPx >= 0, "features.min_radius_px must be >= 0, got %v", f.MinRadiusPx)
	check(f.SupportDelta > 0, "features.support_delta must be > 0, got %v", f.SupportDelta)

	cal := c.Calibration
	check(cal.MinValidFeatures >= 1, "calibration.min_valid_features must be >= 1, got %d", cal.MinValidFeatures)
	check(cal.MinSigma > 0, "calibration.min_sigma must be > 0, got %v", cal.MinSigma)
	check(cal.EmptyWindow > 0, "calibration.empty_window must be > 0, got %v", cal.EmptyWindow)
	check(cal.EmptySupportMax >= 0 && cal.EmptySupportMax <= 2, "calibration.empty_support_max must be in [0,2], got %v", cal.EmptySupportMax)
	check(cal.MinEmptySubset >= 1, "calibration.min_empty_subset must be >= 1, got %d", cal.MinEmptySubset)
	check(cal.MinChromaThreshold > 0, "calibration.min_chroma_threshold must be > 0, got %v", cal.MinChromaThreshold)

	s := c.Scoring
	check(s.ZClamp > 0, "scoring.z_clamp must be > 0, got %v", s.ZClamp)
	check(s.ChromaPenaltyCap > 0, "scoring.chroma_penalty_cap must be > 0, got %v", s.ChromaPenaltyCap)
	check(s.ChromaConfidence >= 0 && s.ChromaConfidence <= 1, "scoring.chroma_confidence must be in [0,1], got %v", s.ChromaConfidence)
	check(s.BaseMargin > 0, "scoring.base_margin must be > 0, got %v", s.BaseMargin)
	check(s.EdgePenalty >= 0, "scoring.edge_penalty must be >= 0, got %v", s.EdgePenalty)
	check(s.EdgeBand >= 0, "scoring.edge_band must be >= 0, got %d", s.EdgeBand)

	p := c.Policy
	check(p.MinAbsZ >= 0 && p.MinAbsZEdge >= p.MinAbsZ, "policy.min_abs_z_edge must be >= policy.min_abs_z >= 0")
	check(p.MinBlackConfidenceLarge >= 0 && p.MinBlackConfidenceLarge <= 1, "policy.min_black_confidence_large must be in [0,1], got %v", p.MinBlackConfidenceLarge)

	r := c.Refine
	if r.Enabled {
		check(r.Step > 0, "refine.step must be > 0, got %v", r.Step)
		check(r.Radius >= 1, "refine.radius must be >= 1, got %d", r.Radius)
		check(r.ImproveFraction >= 0, "refine.improve_fraction must be >= 0, got %v", r.ImproveFraction)
		check(r.PromoteFraction >= r.ImproveFraction, "refine.promote_fraction must be >= refine.improve_fraction")
	}

	check(c.Workers >= 0, "workers must be >= 0, got %d", c.Workers)
	return err
}
