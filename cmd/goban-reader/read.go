package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/diagnostics"
	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/imaging"
	"github.com/ironsheep/goban-reader/internal/pipeline"
	"github.com/ironsheep/goban-reader/internal/stones"
)

type readFlags struct {
	configPath  string
	corners     string
	diagnostics string
	diagram     bool
}

// readOutput is one JSON document per photograph.
type readOutput struct {
	Path   string               `json:"path"`
	Error  string               `json:"error,omitempty"`
	Counts map[stones.State]int `json:"counts,omitempty"`
	Result *pipeline.Result     `json:"result,omitempty"`
}

// runRead implements the read subcommand and returns the process exit code:
// 0 when every photograph was read, 1 when any failed and 2 for bad usage.
func runRead(args []string, stdout, stderr io.Writer) int {
	var f readFlags
	fs := pflag.NewFlagSet("read", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "tuning file (YAML, JSON or TOML)")
	fs.StringVar(&f.corners, "corners", "", "four board corners x,y,... clockwise from top-left")
	fs.StringVar(&f.diagnostics, "diagnostics", "", "directory for per-stage images and stats")
	fs.BoolVar(&f.diagram, "diagram", false, "print a text diagram after each result")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "read: at least one photograph path is required")
		return 2
	}

	logger, err := newLogger(envLevel())
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.LoadOrDefault(f.configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	h := geometry.Identity()
	if f.corners != "" {
		pts, err := parseCorners(f.corners)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if h, err = pipeline.CornerHomography(pts); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	r := &reader{
		cache:  imaging.NewImageCache(),
		cfg:    cfg,
		h:      h,
		flags:  f,
		logger: logger,
		multi:  fs.NArg() > 1,
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	var errs error
	for _, path := range fs.Args() {
		out, err := r.read(path)
		if err != nil {
			logger.Warn("read failed", zap.String("path", path), zap.Error(err))
			out.Error = err.Error()
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "failed to write result: %v\n", err)
			return 1
		}
		if f.diagram && out.Result != nil {
			fmt.Fprint(stdout, out.Result.Diagram())
		}
	}

	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

type reader struct {
	cache  *imaging.ImageCache
	cfg    config.Config
	h      geometry.Homography
	flags  readFlags
	logger *zap.Logger
	multi  bool
}

func (r *reader) read(path string) (readOutput, error) {
	out := readOutput{Path: path}

	img, err := r.cache.Load(path)
	if err != nil {
		return out, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(r.logger.With(zap.String("path", path)))}
	var dir *diagnostics.Dir
	if r.flags.diagnostics != "" {
		if dir, err = diagnostics.NewDir(r.diagnosticsPath(path)); err != nil {
			return out, err
		}
		opts = append(opts, pipeline.WithSink(dir))
	}

	res, err := pipeline.Read(img, r.h, r.cfg, opts...)
	if err != nil {
		return out, err
	}
	out.Result = res
	out.Counts = res.Counts()

	if dir != nil {
		if err := dir.Err(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// diagnosticsPath gives each photograph its own subdirectory, named after
// the file, when more than one is read.
func (r *reader) diagnosticsPath(path string) string {
	if !r.multi {
		return r.flags.diagnostics
	}
	base := filepath.Base(path)
	return filepath.Join(r.flags.diagnostics, strings.TrimSuffix(base, filepath.Ext(base)))
}

// parseCorners reads "x1,y1,x2,y2,x3,y3,x4,y4".
func parseCorners(s string) ([]geometry.Point, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 8 {
		return nil, fmt.Errorf("corners: want 8 comma-separated numbers, got %d", len(fields))
	}

	pts := make([]geometry.Point, 4)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("corners: %w", err)
		}
		if i%2 == 0 {
			pts[i/2].X = v
		} else {
			pts[i/2].Y = v
		}
	}
	return pts, nil
}
