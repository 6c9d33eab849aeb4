package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/ridestats/core/agg"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
)

// errNoRideStore is returned when a query runs without a ride store.
var errNoRideStore = errors.New("ride store is not initialized")

func rideStoreFrom(mgr contract.CacheManager) (contract.RideStore, error) {
	if mgr == nil {
		return nil, errNoRideStore
	}
	store := mgr.GetRideStore()
	if store == nil {
		return nil, errNoRideStore
	}
	return store, nil
}

// logQueryHeader prints a one-line header for a query unless the context suppresses it.
func logQueryHeader(ctx context.Context, cfg *contract.Config, title string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	fmt.Fprintf(os.Stderr, "🚲 Rides: %s backend (Query: %s)\n", cfg.RideBackend, title)
}

// GetTotalsResults returns fleet totals, memoizing each figure under its own name.
func GetTotalsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RideTotals, error) {
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return schema.RideTotals{}, err
	}
	memo := memoizerFor(cfg, mgr)

	// A single aggregate query backs every figure that misses
	loadTotals := sync.OnceValues(store.Totals)

	count, err := GetOrCompute(memo, schema.TotalCountKey, store.CountRides)
	if err != nil {
		return schema.RideTotals{}, fmt.Errorf("error counting rides: %w", err)
	}
	distance, err := GetOrCompute(memo, schema.TotalDistanceKey, func() (float64, error) {
		t, err := loadTotals()
		return t.Distance, err
	})
	if err != nil {
		return schema.RideTotals{}, fmt.Errorf("error loading total distance: %w", err)
	}
	hardBraking, err := GetOrCompute(memo, schema.HardBrakingKey, func() (int, error) {
		t, err := loadTotals()
		return t.HardBrakingEvents(), err
	})
	if err != nil {
		return schema.RideTotals{}, fmt.Errorf("error loading hard braking events: %w", err)
	}
	gforce, err := GetOrCompute(memo, schema.GForceAlertsKey, func() (int, error) {
		t, err := loadTotals()
		return t.GForceAlerts(), err
	})
	if err != nil {
		return schema.RideTotals{}, fmt.Errorf("error loading g-force alerts: %w", err)
	}
	smoothness, err := GetOrCompute(memo, schema.SmoothnessScoreKey, func() (float64, error) {
		t, err := loadTotals()
		return t.SmoothnessScore, err
	})
	if err != nil {
		return schema.RideTotals{}, fmt.Errorf("error loading smoothness score: %w", err)
	}

	return schema.RideTotals{
		Count:             count,
		Distance:          distance,
		FastAccelerations: gforce - hardBraking,
		FastDecelerations: hardBraking,
		SmoothnessScore:   smoothness,
	}, nil
}

// GetSummaryResults returns the dashboard summary over every stored ride.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Summary, error) {
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return schema.Summary{}, err
	}
	logQueryHeader(ctx, cfg, "summary")

	return GetOrCompute(memoizerFor(cfg, mgr), schema.SummaryKey, func() (schema.Summary, error) {
		return agg.LoadSummary(store)
	})
}

// GetMonthlyResults buckets distance or speed by month. With cfg.PerRide the
// buckets are fed by whole rides instead of individual track points.
func GetMonthlyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, metric schema.MonthlyMetric) ([]schema.ChartPoint[string, float64], error) {
	if _, ok := schema.ValidMonthlyMetrics[metric]; !ok {
		return nil, fmt.Errorf("invalid monthly metric %q. Must be distance or speed", metric)
	}
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return nil, err
	}

	granularity := "point"
	if cfg.PerRide {
		granularity = "ride"
	}
	logQueryHeader(ctx, cfg, fmt.Sprintf("%s by month per %s", metric, granularity))

	name := fmt.Sprintf("%s%s_%s", schema.MonthsKeyPrefix, metric, granularity)
	return GetOrCompute(memoizerFor(cfg, mgr), name, func() ([]schema.ChartPoint[string, float64], error) {
		rides, err := store.ListRides(!cfg.PerRide)
		if err != nil {
			return nil, fmt.Errorf("error listing rides: %w", err)
		}
		switch {
		case metric == schema.DistanceMetric && cfg.PerRide:
			return agg.RideDistanceByMonth(rides), nil
		case metric == schema.DistanceMetric:
			return agg.DistanceByMonth(agg.Points(rides)), nil
		case cfg.PerRide:
			return agg.RideSpeedByMonth(rides), nil
		default:
			return agg.SpeedByMonth(agg.Points(rides)), nil
		}
	})
}

// GetSpeedHistogramResults bins every track point speed in km/h.
func GetSpeedHistogramResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ChartPoint[float64, int], error) {
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return nil, err
	}
	binSize := cfg.BinSize
	if binSize <= 0 {
		binSize = agg.DefaultHistogramBinSize
	}
	logQueryHeader(ctx, cfg, fmt.Sprintf("speed histogram (bin %d km/h)", binSize))

	name := fmt.Sprintf("%shistogram_%d", schema.SpeedKeyPrefix, binSize)
	return GetOrCompute(memoizerFor(cfg, mgr), name, func() ([]schema.ChartPoint[float64, int], error) {
		rides, err := store.ListRides(true)
		if err != nil {
			return nil, fmt.Errorf("error listing rides: %w", err)
		}
		return agg.SpeedHistogram(agg.Points(rides), binSize), nil
	})
}

// GetSpeedDistributionResults returns the speed of every track point in km/h.
func GetSpeedDistributionResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ChartValue[float64], error) {
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return nil, err
	}
	logQueryHeader(ctx, cfg, "speed distribution")

	return GetOrCompute(memoizerFor(cfg, mgr), schema.SpeedKeyPrefix+"distribution", func() ([]schema.ChartValue[float64], error) {
		rides, err := store.ListRides(true)
		if err != nil {
			return nil, fmt.Errorf("error listing rides: %w", err)
		}
		return agg.SpeedDistribution(agg.Points(rides)), nil
	})
}

// GetRidesPageResults returns one page of rides, newest first.
func GetRidesPageResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RidePage, error) {
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return schema.RidePage{}, err
	}
	page := max(cfg.Page, 1)
	size := cfg.PageSize
	if size <= 0 {
		size = contract.DefaultPageSize
	}
	logQueryHeader(ctx, cfg, fmt.Sprintf("rides page %d", page))

	memo := memoizerFor(cfg, mgr)
	total, err := GetOrCompute(memo, schema.TotalCountKey, store.CountRides)
	if err != nil {
		return schema.RidePage{}, fmt.Errorf("error counting rides: %w", err)
	}

	name := fmt.Sprintf("%s%d_size_%d", schema.RidesPageKeyPrefix, page, size)
	rides, err := GetOrCompute(memo, name, func() ([]schema.Ride, error) {
		return store.ListRidesPage(page, size)
	})
	if err != nil {
		return schema.RidePage{}, fmt.Errorf("error listing rides page %d: %w", page, err)
	}

	return schema.RidePage{Page: page, PageSize: size, Total: total, Rides: rides}, nil
}

// GetRideDynamicsResults loads one ride with its points and derives its detail series.
func GetRideDynamicsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, rideID string) (schema.RideDynamics, error) {
	if rideID == "" {
		return schema.RideDynamics{}, errors.New("ride ID is required")
	}
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return schema.RideDynamics{}, err
	}
	logQueryHeader(ctx, cfg, "ride "+rideID)

	r, err := store.GetRide(rideID, true)
	if err != nil {
		return schema.RideDynamics{}, err
	}
	return agg.Dynamics(r, cfg.AccelThreshold, cfg.DecelThreshold), nil
}
