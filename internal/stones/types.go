package stones

import (
	"fmt"

	"github.com/ironsheep/goban-reader/internal/geometry"
)

// State is the occupant of an intersection.
type State int

const (
	Empty State = iota
	Black
	White
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reason records why a call was resolved to Empty. ReasonNone means the
// decision stands as scored.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvalidFeature
	ReasonWeakSignal
	ReasonLowConfidence
	ReasonWeakSupport
	ReasonWhiteEdgeArtifact
	ReasonNeighborContrast
)

var reasonNames = [...]string{
	ReasonNone:              "",
	ReasonInvalidFeature:    "invalid_feature",
	ReasonWeakSignal:        "weak_signal",
	ReasonLowConfidence:     "low_confidence",
	ReasonWeakSupport:       "weak_support",
	ReasonWhiteEdgeArtifact: "white_edge_artifact",
	ReasonNeighborContrast:  "neighbor_contrast",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// EdgeLevel is the distance class of an intersection from the board edge.
// Its numeric value scales the required margin.
type EdgeLevel int

const (
	Interior EdgeLevel = iota
	NearEdge
	OnEdge
)

func (e EdgeLevel) String() string {
	switch e {
	case Interior:
		return "interior"
	case NearEdge:
		return "near_edge"
	case OnEdge:
		return "on_edge"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e EdgeLevel) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Feature is the local evidence at one intersection.
type Feature struct {
	DeltaL     float64 `json:"delta_l"`   // inner mean L - background median L
	ChromaSq   float64 `json:"chroma_sq"` // inner (a,b) distance from neutral, squared
	DarkFrac   float64 `json:"dark_frac"`
	BrightFrac float64 `json:"bright_frac"`
	Valid      bool    `json:"valid"`

	BackgroundSamples int `json:"background_samples"`
}

// Support is the combined dark and bright fraction.
func (f Feature) Support() float64 {
	return f.DarkFrac + f.BrightFrac
}

// Scores holds the three hypothesis scores; higher is better.
type Scores struct {
	Black float64 `json:"black"`
	White float64 `json:"white"`
	Empty float64 `json:"empty"`
}

// Of returns the score of s.
func (sc Scores) Of(s State) float64 {
	switch s {
	case Black:
		return sc.Black
	case White:
		return sc.White
	default:
		return sc.Empty
	}
}

// Decision is the resolved call for one intersection.
//
// When Reason is set the policy demoted the scored call: State is Empty,
// Proposed holds the scored state, and Scores, BestScore, Margin and
// RequiredMargin still describe the scored call.
type Decision struct {
	State          State   `json:"state"`
	Proposed       State   `json:"proposed"`
	Scores         Scores  `json:"scores"`
	Z              float64 `json:"z"`
	BestScore      float64 `json:"best_score"`
	Margin         float64 `json:"margin"`
	RequiredMargin float64 `json:"required_margin"`
	Confidence     float64 `json:"confidence"`
	Reason         Reason  `json:"reason,omitempty"`

	// Offset is the sampling offset adopted by refinement, in pixels.
	Offset  geometry.Point `json:"offset"`
	Refined bool           `json:"refined"`
}

// Rejected reports whether the policy or an invalid feature resolved the
// call to Empty.
func (d Decision) Rejected() bool {
	return d.Reason != ReasonNone
}

// SpatialContext is the board position of an intersection.
type SpatialContext struct {
	Row  int       `json:"row"`
	Col  int       `json:"col"`
	Size int       `json:"size"`
	Edge EdgeLevel `json:"edge"`

	// NeighborMedian is the median DeltaL of the valid 8-neighbours;
	// HasNeighbors is false when none is valid.
	NeighborMedian float64 `json:"neighbor_median"`
	HasNeighbors   bool    `json:"has_neighbors"`
}
