package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the board photograph",
	}
}

func cornersProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
		"minItems":    4,
		"maxItems":    4,
		"description": "Optional board corners in photo pixels, clockwise from top-left. The photo is pre-warped to a square before line detection.",
	}
}

func configPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional tuning file (YAML, JSON or TOML). Keys it omits keep their defaults.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Photograph Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent board calls on the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Board Reading
		{
			Name:        "board_read",
			Description: "Read a Go board photograph: infer the board size (9, 13 or 19) and the intersection grid, then classify every intersection as empty, black or white with a confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"corners":     cornersProperty(),
					"config_path": configPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_detect_grid",
			Description: "Detect the near-axis lines of a board photograph and report the clustered line candidates per axis and the inferred grid, without classifying stones.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"corners":     cornersProperty(),
					"config_path": configPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "board_overlay",
			Description: "Read a board photograph and return the rectified board as base64-encoded PNG with the fitted grid and every call drawn on it (blue ring black, red ring white, green dot empty, amber ring rejected).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"corners":     cornersProperty(),
					"config_path": configPathProperty(),
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to label intersections with board coordinates (e.g. D4)",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as hex (default #FF000080 - semi-transparent red)",
						"default":     "#FF000080",
					},
				},
				"required": []string{"path"},
			},
		},

		// Configuration
		{
			Name:        "board_default_config",
			Description: "Return the default tuning configuration. Any subset of it can be saved to a file and passed as config_path.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
