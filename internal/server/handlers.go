package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/detection"
	"github.com/ironsheep/goban-reader/internal/geometry"
	"github.com/ironsheep/goban-reader/internal/grid"
	"github.com/ironsheep/goban-reader/internal/imaging"
	"github.com/ironsheep/goban-reader/internal/pipeline"
	"github.com/ironsheep/goban-reader/internal/stones"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "board_read", "board_overlay").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each board handler:
//  1. Unmarshals arguments from JSON
//  2. Resolves the tuning (config_path or the server default)
//  3. Loads the photograph from cache and builds the corner pre-warp
//  4. Calls the pipeline, detection or imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Photograph Information
	case "image_load":
		return s.handleImageLoad(args)

	// Board Reading
	case "board_read":
		return s.handleBoardRead(args)
	case "board_detect_grid":
		return s.handleBoardDetectGrid(args)
	case "board_overlay":
		return s.handleBoardOverlay(args)

	// Configuration
	case "board_default_config":
		return config.Default(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Photograph Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Board Handlers ===

// boardArgs are shared by every board tool.
type boardArgs struct {
	Path       string           `json:"path"`
	Corners    []geometry.Point `json:"corners,omitempty"`
	ConfigPath string           `json:"config_path,omitempty"`
}

// prepare loads the photograph, the pre-warp and the tuning of a call.
func (s *Server) prepare(a boardArgs) (image.Image, geometry.Homography, config.Config, error) {
	if a.Path == "" {
		return nil, geometry.Homography{}, config.Config{}, errors.New("path is required")
	}

	cfg := s.cfg
	if a.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(a.ConfigPath); err != nil {
			return nil, geometry.Homography{}, config.Config{}, err
		}
	}

	h := geometry.Identity()
	if a.Corners != nil {
		var err error
		if h, err = pipeline.CornerHomography(a.Corners); err != nil {
			return nil, geometry.Homography{}, config.Config{}, err
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, geometry.Homography{}, config.Config{}, err
	}
	return img, h, cfg, nil
}

// boardReadResult is the pipeline result plus compact summaries.
type boardReadResult struct {
	*pipeline.Result
	Counts  map[stones.State]int `json:"counts"`
	Diagram string               `json:"diagram"`
}

func (s *Server) handleBoardRead(args json.RawMessage) (interface{}, error) {
	var a boardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, h, cfg, err := s.prepare(a)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Read(img, h, cfg, pipeline.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return &boardReadResult{Result: res, Counts: res.Counts(), Diagram: res.Diagram()}, nil
}

// detectGridResult reports line candidates even when inference fails.
type detectGridResult struct {
	FrameWidth  int              `json:"frame_width"`
	FrameHeight int              `json:"frame_height"`
	Lines       int              `json:"lines"`
	Vertical    []grid.Candidate `json:"vertical"`
	Horizontal  []grid.Candidate `json:"horizontal"`
	Grid        *grid.Grid       `json:"grid,omitempty"`
	GridError   string           `json:"grid_error,omitempty"`
}

func (s *Server) handleBoardDetectGrid(args json.RawMessage) (interface{}, error) {
	var a boardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, h, cfg, err := s.prepare(a)
	if err != nil {
		return nil, err
	}

	frame, err := pipeline.Frame(img, h)
	if err != nil {
		return nil, err
	}
	lines, err := detection.DetectAxisLines(frame, cfg.Detection)
	if err != nil {
		return nil, err
	}

	out := &detectGridResult{
		FrameWidth:  frame.Bounds().Dx(),
		FrameHeight: frame.Bounds().Dy(),
		Lines:       len(lines.Lines),
		Vertical:    lines.Vertical,
		Horizontal:  lines.Horizontal,
	}
	if g, err := grid.Infer(lines.Vertical, lines.Horizontal, cfg.Grid); err != nil {
		out.GridError = err.Error()
	} else {
		out.Grid = g
	}
	return out, nil
}

type boardOverlayArgs struct {
	boardArgs
	ShowLabels bool   `json:"show_labels"`
	GridColor  string `json:"grid_color"`
}

func (s *Server) handleBoardOverlay(args json.RawMessage) (interface{}, error) {
	var a boardOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GridColor == "" {
		a.GridColor = "#FF000080"
	}
	img, h, cfg, err := s.prepare(a.boardArgs)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Read(img, h, cfg, pipeline.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	overlay := res.Overlay(imaging.OverlayOptions{ShowLabels: a.ShowLabels, GridColor: a.GridColor})
	return imaging.EncodeOverlay(overlay)
}
