package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/ridestats/core"
	"github.com/huangsam/ridestats/core/agg"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// jsonResult renders a tool result as indented JSON.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), h.baseCfg.Clone(), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

func (h *toolHandler) handleGetMonthlyDistance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.monthly(ctx, request, schema.DistanceMetric)
}

func (h *toolHandler) handleGetMonthlySpeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.monthly(ctx, request, schema.SpeedMetric)
}

func (h *toolHandler) monthly(ctx context.Context, request mcp.CallToolRequest, metric schema.MonthlyMetric) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.PerRide = request.GetBool("per_ride", false)

	series, err := core.GetMonthlyResults(core.WithSuppressHeader(ctx), cfg, h.mgr, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("monthly %s failed: %v", metric, err)), nil
	}
	return jsonResult(series)
}

func (h *toolHandler) handleGetSpeedHistogram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.BinSize = request.GetInt("bin_size", agg.DefaultHistogramBinSize)
	if cfg.BinSize <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("bin_size must be positive (received %d)", cfg.BinSize)), nil
	}

	bins, err := core.GetSpeedHistogramResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("speed histogram failed: %v", err)), nil
	}
	return jsonResult(bins)
}

func (h *toolHandler) handleListRides(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Page = request.GetInt("page", 1)
	if cfg.Page < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("page must be at least 1 (received %d)", cfg.Page)), nil
	}
	if size := request.GetInt("page_size", 0); size != 0 {
		if size < 0 || size > contract.MaxPageSize {
			return mcp.NewToolResultError(fmt.Sprintf("page_size must be between 1 and %d (received %d)", contract.MaxPageSize, size)), nil
		}
		cfg.PageSize = size
	}

	page, err := core.GetRidesPageResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing rides failed: %v", err)), nil
	}

	return jsonResult(struct {
		Page     int                   `json:"page"`
		PageSize int                   `json:"page_size"`
		Total    int                   `json:"total"`
		Rides    []schema.EnrichedRide `json:"rides"`
	}{page.Page, page.PageSize, page.Total, schema.EnrichRides(page.Rides, (page.Page-1)*page.PageSize)})
}

func (h *toolHandler) handleGetRideDynamics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rideID := request.GetString("ride_id", "")
	if rideID == "" {
		return mcp.NewToolResultError("ride_id is required"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.AccelThreshold = request.GetFloat("accel_threshold", agg.DefaultAccelerationThreshold)
	cfg.DecelThreshold = request.GetFloat("decel_threshold", agg.DefaultDecelerationThreshold)
	if cfg.AccelThreshold < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("accel_threshold cannot be negative (received %g)", cfg.AccelThreshold)), nil
	}
	if cfg.DecelThreshold > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("decel_threshold cannot be positive (received %g)", cfg.DecelThreshold)), nil
	}

	dynamics, err := core.GetRideDynamicsResults(core.WithSuppressHeader(ctx), cfg, h.mgr, rideID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ride dynamics failed: %v", err)), nil
	}
	return jsonResult(dynamics)
}
