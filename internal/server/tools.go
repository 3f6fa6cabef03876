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
		"description": "Absolute path to the image file",
	}
}

// patternProperties are the per-call overrides of the run configuration
// shared by the pattern tools.
func patternProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"sheet": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"a4", "a3"},
			"description": "Paper sheet. Default from configuration (a4)",
		},
		"cell_shape": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"round", "square"},
			"description": "Cell shape. Round cells are 2.8 mm, square cells 2.5 mm unless cell_size_mm is set",
		},
		"cell_size_mm": map[string]interface{}{
			"type":        "number",
			"description": "Cell diameter or side in millimeters",
		},
		"cell_spacing_mm": map[string]interface{}{
			"type":        "number",
			"description": "Gap between neighbouring cells in millimeters. Default 0",
		},
		"max_colors": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of threads (1-32). Fewer are used when the image has fewer colors",
		},
		"dither": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"floyd-steinberg", "none"},
			"description": "Quantization mode. Default floyd-steinberg",
		},
		"smooth_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before color reduction. 0 disables",
		},
		"keep_image_size": map[string]interface{}{
			"type":        "boolean",
			"description": "Use one cell per source pixel instead of fitting the image to the sheet",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, orientation and number of distinct colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as hex, RGB and HSL, together with the matching or nearest catalog thread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Thread catalog
		{
			Name:        "catalog_info",
			Description: "Describe the loaded thread catalog: its source, size and entries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of threads to list. Default 20, 0 lists none",
					},
				},
			},
		},
		{
			Name:        "catalog_find_color",
			Description: "Find the thread with an exact color, or the perceptually nearest thread when there is none.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB",
					},
				},
				"required": []string{"hex"},
			},
		},

		// Pattern compilation
		{
			Name:        "pattern_fit",
			Description: "Turn the sheet to match the image and compute the working grid in cells.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": patternProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "palette_reduce",
			Description: "Choose the catalog threads that best reproduce the image within max_colors, with per-thread stitch counts and symbols. Reports when fewer colors than requested were achievable.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": patternProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "pattern_generate",
			Description: "Compile the image into a printable pattern page (vector PDF or PNG) with symbols and a thread legend, optionally saving a preview of the quantized image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(patternProperties(), map[string]interface{}{
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the pattern page. The extension picks the format: .pdf or .png",
					},
					"preview_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path for a preview of the quantized image",
					},
					"preview_scale": map[string]interface{}{
						"type":        "integer",
						"description": "Preview pixels per cell. Default 8",
						"default":     8,
					},
					"legend_placement": map[string]interface{}{
						"type": "string",
						"enum": []string{"below", "above"},
					},
					"legend_text": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"catalog", "rgb"},
						"description": "Legend line style: thread code and name, or RGB triple",
					},
					"draw_guides": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw printable-area, pattern and legend frames",
					},
				}),
				"required": []string{"path", "output_path"},
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
