package diagnostics

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Sink receives intermediate images and summary statistics from the
// pipeline. It is write-only; nothing a Sink does affects the result.
type Sink interface {
	Image(stage string, img image.Image)
	Stats(stage string, stats map[string]float64)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Image(string, image.Image)        {}
func (Nop) Stats(string, map[string]float64) {}

// StatsFile is the name of the JSON-lines file Dir appends statistics to.
const StatsFile = "stats.jsonl"

// Dir writes every image as <stage>.png and appends statistics to
// stats.jsonl in a directory. Write failures are kept, not returned, so a
// broken sink never aborts a read; see Err.
type Dir struct {
	path string

	mu  sync.Mutex
	err error
}

// NewDir creates the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory written to.
func (d *Dir) Path() string {
	return d.path
}

// Image saves img as <stage>.png, replacing any earlier image of that stage.
func (d *Dir) Image(stage string, img image.Image) {
	if img == nil {
		return
	}
	file := filepath.Join(d.path, stage+".png")
	if err := imaging.Save(img, file); err != nil {
		d.record(fmt.Errorf("failed to save %s image: %w", stage, err))
	}
}

// statsLine is one record of stats.jsonl.
type statsLine struct {
	Stage string             `json:"stage"`
	Stats map[string]float64 `json:"stats"`
}

// Stats appends one JSON line {"stage": ..., "stats": {...}}.
func (d *Dir) Stats(stage string, stats map[string]float64) {
	line, err := json.Marshal(statsLine{Stage: stage, Stats: stats})
	if err != nil {
		d.record(fmt.Errorf("failed to encode %s stats: %w", stage, err))
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(d.path, StatsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		d.recordLocked(fmt.Errorf("failed to open stats file: %w", err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		d.recordLocked(fmt.Errorf("failed to write %s stats: %w", stage, err))
	}
}

// Err returns the first write failure, if any.
func (d *Dir) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Dir) record(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recordLocked(err)
}

func (d *Dir) recordLocked(err error) {
	if d.err == nil {
		d.err = err
	}
}
