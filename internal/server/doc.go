// Package server implements the MCP (Model Context Protocol) server for the
// thread pattern compiler.
//
// This package provides a JSON-RPC 2.0 server that exposes the stages of the
// pattern pipeline as tools, so an MCP client can inspect an image, choose a
// thread budget and produce a printable pattern page step by step.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load image and get metadata, including its distinct color count
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color at pixel and its nearest thread
//
// Thread Catalog:
//   - catalog_info: Catalog source, size and first entries
//   - catalog_find_color: Exact or nearest thread for a "#RRGGBB" color
//
// Pattern Compilation:
//   - pattern_fit: Sheet orientation and cell grid for an image
//   - palette_reduce: Threads chosen for the image and whether the budget fell back
//   - pattern_generate: Full run writing the pattern page (PDF or PNG) and an optional preview
//
// The pattern tools accept per-call overrides (sheet, cell_shape,
// max_colors, dither, ...) on top of the configuration the server was
// started with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv, err := server.New(config.Default(), logger)
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
