// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the ride analytics MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Ride Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Summarize every stored ride: count, distance, duration, speeds and maneuver alerts."),
	), h.handleGetSummary)

	// --- 2. Tool: get_monthly_distance ---
	s.AddTool(mcp.NewTool("get_monthly_distance",
		mcp.WithDescription("Distance in kilometers bucketed by month, labeled YY-MM."),
		mcp.WithBoolean("per_ride", mcp.Description("Bucket whole rides by start month instead of individual track points.")),
	), h.handleGetMonthlyDistance)

	// --- 3. Tool: get_monthly_speed ---
	s.AddTool(mcp.NewTool("get_monthly_speed",
		mcp.WithDescription("Average speed in km/h bucketed by month, labeled YY-MM."),
		mcp.WithBoolean("per_ride", mcp.Description("Average ride average speeds instead of track point speeds.")),
	), h.handleGetMonthlySpeed)

	// --- 4. Tool: get_speed_histogram ---
	s.AddTool(mcp.NewTool("get_speed_histogram",
		mcp.WithDescription("Count track points per speed bin in km/h. Each bin is labeled by its lower edge."),
		mcp.WithNumber("bin_size", mcp.Description("Bin width in km/h. Defaults to 5.")),
	), h.handleGetSpeedHistogram)

	// --- 5. Tool: list_rides ---
	s.AddTool(mcp.NewTool("list_rides",
		mcp.WithDescription("List stored rides newest first, one page at a time."),
		mcp.WithNumber("page", mcp.Description("Page number starting at 1.")),
		mcp.WithNumber("page_size", mcp.Description("Rides per page (max 100).")),
	), h.handleListRides)

	// --- 6. Tool: get_ride_dynamics ---
	s.AddTool(mcp.NewTool("get_ride_dynamics",
		mcp.WithDescription("Per-point speed, running average, elevation and maneuver series for one ride."),
		mcp.WithString("ride_id", mcp.Description("The ride ID as returned by list_rides."), mcp.Required()),
		mcp.WithNumber("accel_threshold", mcp.Description("Acceleration in m/s² at or above which a point is charted. Defaults to 0.5.")),
		mcp.WithNumber("decel_threshold", mcp.Description("Deceleration in m/s² at or below which a point is charted. Defaults to -0.5.")),
	), h.handleGetRideDynamics)

	return s
}

// StartMCPServer starts the ride analytics MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
