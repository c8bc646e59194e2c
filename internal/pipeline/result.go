package pipeline

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/grid"
	"github.com/ironsheep/goban-reader/internal/imaging"
	"github.com/ironsheep/goban-reader/internal/stones"
)

// Intersection is the outcome for one board point.
type Intersection struct {
	Row        int           `json:"row"`
	Col        int           `json:"col"`
	Coordinate string        `json:"coordinate"`
	X          float64       `json:"x"` // rectified image
	Y          float64       `json:"y"`
	State      stones.State  `json:"state"`
	Confidence float64       `json:"confidence"`
	Reason     stones.Reason `json:"reason,omitempty"`
	Refined    bool          `json:"refined,omitempty"`
}

// Result is a successful board read. Intersections is row-major with
// Size*Size entries.
type Result struct {
	Size          int             `json:"size"`
	Spacing       float64         `json:"spacing"`
	Grid          *grid.Grid      `json:"grid"`
	Board         *geometry.Board `json:"board"`
	Model         *stones.Model   `json:"model"`
	Intersections []Intersection  `json:"intersections"`

	Classification *stones.Classification `json:"-"`
}

func newResult(g *grid.Grid, b *geometry.Board, c *stones.Classification) *Result {
	points := make([]Intersection, len(c.Decisions))
	for i, d := range c.Decisions {
		row, col := i/b.Size, i%b.Size
		p := b.Intersections[i]
		points[i] = Intersection{
			Row:        row,
			Col:        col,
			Coordinate: Coordinate(row, col, b.Size),
			X:          p.X,
			Y:          p.Y,
			State:      d.State,
			Confidence: d.Confidence,
			Reason:     d.Reason,
			Refined:    d.Refined,
		}
	}
	return &Result{
		Size:           b.Size,
		Spacing:        b.Spacing,
		Grid:           g,
		Board:          b,
		Model:          c.Model,
		Intersections:  points,
		Classification: c,
	}
}

// At returns the intersection at (row, col).
func (r *Result) At(row, col int) Intersection {
	return r.Intersections[row*r.Size+col]
}

// Counts returns the number of intersections per state.
func (r *Result) Counts() map[stones.State]int {
	out := map[stones.State]int{stones.Empty: 0, stones.Black: 0, stones.White: 0}
	for _, p := range r.Intersections {
		out[p.State]++
	}
	return out
}

// Diagram renders the board as text, one row per line: X black, O white,
// . empty.
func (r *Result) Diagram() string {
	var sb strings.Builder
	for row := 0; row < r.Size; row++ {
		for col := 0; col < r.Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			switch r.At(row, col).State {
			case stones.Black:
				sb.WriteByte('X')
			case stones.White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Overlay draws the fitted lines and the decision at every intersection on
// the rectified image.
func (r *Result) Overlay(opts imaging.OverlayOptions) *image.NRGBA {
	n := r.Size
	var segments []imaging.Segment
	for i := 0; i < n; i++ {
		for j := 0; j+1 < n; j++ {
			a, b := r.At(i, j), r.At(i, j+1)
			segments = append(segments, imaging.Segment{X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y})
			a, b = r.At(j, i), r.At(j+1, i)
			segments = append(segments, imaging.Segment{X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y})
		}
	}

	markers := make([]imaging.Marker, len(r.Intersections))
	for i, p := range r.Intersections {
		kind := imaging.MarkerEmpty
		switch {
		case p.State == stones.Black:
			kind = imaging.MarkerBlack
		case p.State == stones.White:
			kind = imaging.MarkerWhite
		case p.Reason != stones.ReasonNone && p.Reason != stones.ReasonInvalidFeature:
			kind = imaging.MarkerRejected
		}
		markers[i] = imaging.Marker{X: p.X, Y: p.Y, Kind: kind, Label: p.Coordinate}
	}

	if opts.Radius <= 0 {
		opts.Radius = 0.4 * r.Spacing
	}
	return imaging.Overlay(r.Board.Image, segments, markers, opts)
}

// columnLetters skips I, as board diagrams do.
const columnLetters = "ABCDEFGHJKLMNOPQRST"

// Coordinate names (row, col) the way board diagrams do: a column letter
// from the left and a row number counted from the bottom, e.g. "D4".
func Coordinate(row, col, size int) string {
	if col < 0 || col >= len(columnLetters) {
		return fmt.Sprintf("%d-%d", row, col)
	}
	return fmt.Sprintf("%c%d", columnLetters[col], size-row)
}
