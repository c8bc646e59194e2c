// Package server implements the MCP (Model Context Protocol) server for Go
// board photographs.
//
// This package provides a JSON-RPC 2.0 server that exposes the board reader
// through the MCP protocol, so MCP-compatible clients can turn a photo of a
// physical board into a position.
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
// Photograph Information:
//   - image_load: Load image and get metadata
//
// Board Reading:
//   - board_read: Board size, intersection grid and per-intersection calls
//   - board_detect_grid: Line candidates and the inferred grid only
//   - board_overlay: Rectified board with the calls drawn on it (base64 PNG)
//
// Configuration:
//   - board_default_config: The default tuning aggregate
//
// Every board tool accepts optional corners (four points, clockwise from the
// top-left) to pre-warp a photo taken at an angle, and an optional
// config_path whose keys override the server's tuning.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "grid: vertical axis: ..." when no
//     board could be recognised
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server failed", zap.Error(err))
//	}
package server
