// Package core has core logic for ingesting rides and answering analytics queries.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/outwriter"
	"github.com/huangsam/ridestats/internal/thumbnail"
	"github.com/huangsam/ridestats/schema"
)

// ExecutorFunc defines the function signature for executing query commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteIngest ingests GPX files and prints the stored rides.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, paths []string) error {
	start := time.Now()
	report, err := IngestFiles(ctx, cfg, mgr, paths)
	if err != nil {
		return err
	}
	return outwriter.WriteIngestReport(report, cfg, time.Since(start))
}

// ExecuteSummary prints the dashboard summary.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	summary, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSummary(summary, cfg, time.Since(start))
}

// ExecuteMonths returns an executor that prints the monthly series for metric.
func ExecuteMonths(metric schema.MonthlyMetric) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
		start := time.Now()
		series, err := GetMonthlyResults(ctx, cfg, mgr, metric)
		if err != nil {
			return err
		}
		return outwriter.WriteMonthly(series, metric, cfg, time.Since(start))
	}
}

// ExecuteSpeedHistogram prints the binned speed histogram.
func ExecuteSpeedHistogram(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	bins, err := GetSpeedHistogramResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteHistogram(bins, cfg, time.Since(start))
}

// ExecuteSpeedDistribution prints the raw speed distribution.
func ExecuteSpeedDistribution(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	values, err := GetSpeedDistributionResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteDistribution(values, cfg, time.Since(start))
}

// ExecuteRidesList prints one page of rides.
func ExecuteRidesList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	page, err := GetRidesPageResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteRidePage(page, cfg, time.Since(start))
}

// ExecuteRideShow prints the detail series of a single ride.
func ExecuteRideShow(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, rideID string) error {
	start := time.Now()
	dynamics, err := GetRideDynamicsResults(ctx, cfg, mgr, rideID)
	if err != nil {
		return err
	}
	return outwriter.WriteRideDynamics(dynamics, cfg, time.Since(start))
}

// ExecuteRideThumbnail renders the track of a single ride as a PNG icon.
func ExecuteRideThumbnail(_ context.Context, cfg *contract.Config, mgr contract.CacheManager, rideID string) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for thumbnail command")
	}
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return err
	}
	r, err := store.GetRide(rideID, true)
	if err != nil {
		return err
	}
	if err := thumbnail.RenderFile(cfg.OutputFile, r.TrackPoints, cfg.ThumbnailSize); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote thumbnail to %s\n", cfg.OutputFile)
	return nil
}
