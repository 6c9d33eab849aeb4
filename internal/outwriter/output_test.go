package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rideStart = time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

func testConfig(output schema.OutputMode, file string) *contract.Config {
	return &contract.Config{
		Precision:   1,
		Workers:     2,
		Output:      output,
		OutputFile:  file,
		Width:       200,
		SpeedUnit:   units.KPH,
		RideBackend: schema.SQLiteBackend,
	}
}

func sampleRides() []schema.Ride {
	return []schema.Ride{
		{
			ID: "r1", Label: "commute.gpx", Start: rideStart, End: rideStart.Add(30 * time.Minute),
			Distance: 18, MaxSpeed: 12.5, FastAccelerationCount: 2, FastDecelerationCount: 1,
		},
		{
			ID: "r2", Label: "errand.gpx", Start: rideStart.Add(time.Hour), End: rideStart.Add(time.Hour),
			Distance: 0.5,
		},
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestWriteSummary(t *testing.T) {
	summary := schema.Summary{
		RideCount:          2,
		TotalDistance:      1.5,
		TotalDuration:      6 * time.Second,
		AverageTripMinutes: 3,
		AverageSpeedKmh:    18,
		MaxSpeedKmh:        36,
		HardBrakingEvents:  2,
		GForceAlerts:       6,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, intFmt := createFormatters(1)
		require.NoError(t, writeSummaryTable(&buf, summary, testConfig(schema.TextOut, ""), fmtFloat, intFmt, time.Millisecond))
		out := buf.String()
		assert.Contains(t, out, "Hard braking events")
		assert.Contains(t, out, "36.0")
		assert.Contains(t, out, "Query completed in 1ms with 2 workers. Ride backend: sqlite")
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.csv")
		require.NoError(t, WriteSummary(summary, testConfig(schema.CSVOut, path), time.Millisecond))
		expected := "metric,value\n" +
			"ride_count,2\n" +
			"total_distance_km,1.5\n" +
			"total_duration,6s\n" +
			"average_trip_minutes,3.0\n" +
			"average_speed_kmh,18.0\n" +
			"max_speed_kmh,36.0\n" +
			"hard_braking_events,2\n" +
			"gforce_alerts,6\n" +
			"smoothness_score,0.0\n"
		assert.Equal(t, expected, readOutput(t, path))
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.json")
		require.NoError(t, WriteSummary(summary, testConfig(schema.JSONOut, path), time.Millisecond))
		var decoded schema.Summary
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &decoded))
		assert.Equal(t, summary, decoded)
	})

	t.Run("html", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.html")
		require.NoError(t, WriteSummary(summary, testConfig(schema.HTMLOut, path), time.Millisecond))
		out := readOutput(t, path)
		assert.Contains(t, out, "<html")
		assert.Contains(t, out, "echarts")
	})

	t.Run("parquet is unsupported", func(t *testing.T) {
		err := WriteSummary(summary, testConfig(schema.ParquetOut, ""), time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parquet output is not supported for summary")
	})
}

func TestWriteMonthly(t *testing.T) {
	series := MonthlySeries{{Label: "25-01", Value: 12.24}, {Label: "25-02", Value: 3}}

	t.Run("csv distance", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "months.csv")
		require.NoError(t, WriteMonthly(series, schema.DistanceMetric, testConfig(schema.CSVOut, path), 0))
		assert.Equal(t, "month,distance_km\n25-01,12.2\n25-02,3.0\n", readOutput(t, path))
	})

	t.Run("csv speed", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, _ := createFormatters(2)
		require.NoError(t, writeMonthlyCSV(&buf, series, schema.SpeedMetric, fmtFloat))
		assert.True(t, strings.HasPrefix(buf.String(), "month,avg_speed_kmh\n25-01,12.24\n"))
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, _ := createFormatters(1)
		require.NoError(t, writeMonthlyTable(&buf, series, schema.DistanceMetric, testConfig(schema.TextOut, ""), fmtFloat, 0))
		assert.Contains(t, buf.String(), "25-02")
		assert.Contains(t, buf.String(), "Showing 2 months of distance")
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeMonthlyChart(&buf, series, schema.SpeedMetric, true))
		assert.Contains(t, buf.String(), "echarts")
	})
}

func TestWriteHistogram(t *testing.T) {
	bins := HistogramBins{{Label: 0, Value: 2}, {Label: 5, Value: 0}, {Label: 10, Value: 4}}

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hist.csv")
		require.NoError(t, WriteHistogram(bins, testConfig(schema.CSVOut, path), 0))
		expected := "speed_from_kmh,speed_to_kmh,count\n0.0,5.0,2\n5.0,10.0,0\n10.0,15.0,4\n"
		assert.Equal(t, expected, readOutput(t, path))
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHistogramTable(&buf, bins, 5, testConfig(schema.TextOut, ""), "%d", 0))
		assert.Contains(t, buf.String(), "10-15")
		assert.Contains(t, buf.String(), "Showing 3 bins of 5 km/h (total points: 6)")
	})
}

func TestBinWidth(t *testing.T) {
	assert.Equal(t, 10.0, binWidth(HistogramBins{{Label: 20}, {Label: 30}}, 5))
	assert.Equal(t, 7.0, binWidth(HistogramBins{{Label: 21}}, 7))
	assert.Equal(t, 5.0, binWidth(nil, 0))
}

func TestQuantile(t *testing.T) {
	sorted := sortedSpeeds(SpeedSamples{{Value: 30}, {Value: 10}, {Value: 20}, {Value: 40}, {Value: 0}})
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, sorted)

	tests := []struct {
		sorted []float64
		q      float64
		want   float64
	}{
		{sorted, 0, 0},
		{sorted, 0.5, 20},
		{sorted, 0.95, 40},
		{sorted, 1, 40},
		{[]float64{0, 18, 36}, 0.25, 0},
		{[]float64{0, 18, 36}, 0.5, 18},
		{[]float64{0, 18, 36}, 0.95, 36},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(tt.sorted, tt.q), 1e-9, "q=%g of %v", tt.q, tt.sorted)
	}
	assert.Zero(t, quantile(nil, 0.5))
}

func TestWriteDistribution(t *testing.T) {
	samples := SpeedSamples{{Value: 18}, {Value: 0}, {Value: 36}}

	t.Run("csv keeps delivery order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dist.csv")
		require.NoError(t, WriteDistribution(samples, testConfig(schema.CSVOut, path), 0))
		assert.Equal(t, "speed_kmh\n18.0\n0.0\n36.0\n", readOutput(t, path))
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, _ := createFormatters(1)
		require.NoError(t, writeDistributionTable(&buf, samples, testConfig(schema.TextOut, ""), fmtFloat, 0))
		assert.Contains(t, buf.String(), "Median (km/h)")
		assert.Contains(t, buf.String(), "18.0")
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDistributionChart(&buf, samples))
		assert.Contains(t, buf.String(), "echarts")
	})
}

func TestWriteRidePage(t *testing.T) {
	page := schema.RidePage{Page: 2, PageSize: 10, Total: 12, Rides: sampleRides()}

	t.Run("json ranks continue across pages", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rides.json")
		require.NoError(t, WriteRidePage(page, testConfig(schema.JSONOut, path), 0))

		var decoded struct {
			Page  int `json:"page"`
			Total int `json:"total"`
			Rides []struct {
				Rank     int    `json:"rank"`
				ID       string `json:"id"`
				Severity string `json:"severity"`
			} `json:"rides"`
		}
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &decoded))
		assert.Equal(t, 2, decoded.Page)
		assert.Equal(t, 12, decoded.Total)
		require.Len(t, decoded.Rides, 2)
		assert.Equal(t, 11, decoded.Rides[0].Rank)
		assert.Equal(t, "r1", decoded.Rides[0].ID)
		assert.Equal(t, "Moderate", decoded.Rides[0].Severity)
		assert.Equal(t, 12, decoded.Rides[1].Rank)
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rides.txt")
		require.NoError(t, WriteRidePage(page, testConfig(schema.TextOut, path), 0))
		out := readOutput(t, path)
		assert.Contains(t, out, "commute.gpx")
		assert.Contains(t, out, "45.0")
		assert.Contains(t, out, "Showing page 2 (2 of 12 rides)")
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rides.parquet")
		require.NoError(t, WriteRidePage(page, testConfig(schema.ParquetOut, path), 0))
		out := readOutput(t, path)
		assert.True(t, strings.HasPrefix(out, "PAR1"))
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRidesChart(&buf, page.Rides, 10))
		assert.Contains(t, buf.String(), "echarts")
	})
}

func TestWriteRidesCSVSpeedUnit(t *testing.T) {
	tests := []struct {
		unit     string
		avg, max string
	}{
		{units.KPH, "36.0", "45.0"},
		{units.MPH, "22.4", "28.0"},
		{units.MPS, "10.0", "12.5"},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			cfg := testConfig(schema.CSVOut, "")
			cfg.SpeedUnit = tt.unit
			fmtFloat, intFmt := createFormatters(1)

			var buf bytes.Buffer
			require.NoError(t, writeRidesCSV(&buf, sampleRides()[:1], 0, cfg, fmtFloat, intFmt))
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2)
			fields := strings.Split(lines[1], ",")
			assert.Equal(t, "1", fields[0])
			assert.Equal(t, "commute.gpx", fields[2])
			assert.Equal(t, "30.0", fields[5])
			assert.Equal(t, tt.avg, fields[7])
			assert.Equal(t, tt.max, fields[8])
			assert.Equal(t, tt.unit, fields[9])
			assert.Equal(t, "Moderate", fields[15])
		})
	}
}

func TestWriteIngestReport(t *testing.T) {
	report := schema.IngestReport{Generation: 3, Rides: sampleRides()}

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ingest.txt")
		require.NoError(t, WriteIngestReport(report, testConfig(schema.TextOut, path), time.Second))
		out := readOutput(t, path)
		assert.Contains(t, out, "errand.gpx")
		assert.Contains(t, out, "Ingested 2 rides in 1s (generation 3). Ride backend: sqlite")
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ingest.json")
		require.NoError(t, WriteIngestReport(report, testConfig(schema.JSONOut, path), time.Second))
		var decoded struct {
			Generation int64             `json:"generation"`
			Rides      []json.RawMessage `json:"rides"`
		}
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, path)), &decoded))
		assert.Equal(t, int64(3), decoded.Generation)
		assert.Len(t, decoded.Rides, 2)
	})
}

func sampleDynamics() schema.RideDynamics {
	t0 := rideStart
	t1 := rideStart.Add(time.Second)
	point := func(t time.Time, v float64) schema.ChartPoint[time.Time, float64] {
		return schema.ChartPoint[time.Time, float64]{Label: t, Value: v}
	}
	return schema.RideDynamics{
		Ride: schema.Ride{
			ID: "r1", Label: "commute.gpx", Start: t0, End: t1, Distance: 0.01,
			TrackPoints: []schema.TrackPoint{{RideID: "r1", Time: t0}, {RideID: "r1", Time: t1, Speed: 5}},
		},
		Speed:          TimeSeries{point(t0, 0), point(t1, 18)},
		RunningAverage: TimeSeries{point(t0, 0), point(t1, 9)},
		Elevation:      TimeSeries{point(t0, 100), point(t1, 101)},
		Acceleration:   TimeSeries{point(t0, 0), point(t1, 5)},
		Deceleration:   TimeSeries{point(t0, 0)},
	}
}

func TestWriteRideDynamics(t *testing.T) {
	d := sampleDynamics()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ride.csv")
		require.NoError(t, WriteRideDynamics(d, testConfig(schema.CSVOut, path), 0))
		expected := "time,speed_kmh,running_avg_kmh,elevation_m,acceleration,deceleration\n" +
			"2025-01-05T08:00:00Z,0.0,0.0,100.0,0.0,0.0\n" +
			"2025-01-05T08:00:01Z,18.0,9.0,101.0,5.0,0.0\n"
		assert.Equal(t, expected, readOutput(t, path))
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		fmtFloat, _ := createFormatters(1)
		require.NoError(t, writeDynamicsTable(&buf, d, testConfig(schema.TextOut, ""), fmtFloat, 0))
		out := buf.String()
		assert.Contains(t, out, "Ride r1 (commute.gpx): 0.0 km in 1s, Low")
		assert.Contains(t, out, "08:00:01")
	})

	t.Run("parquet writes track points", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ride.parquet")
		require.NoError(t, WriteRideDynamics(d, testConfig(schema.ParquetOut, path), 0))
		assert.True(t, strings.HasPrefix(readOutput(t, path), "PAR1"))
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDynamicsCharts(&buf, d))
		assert.Contains(t, buf.String(), "echarts")
	})
}

func TestSeverityLabel(t *testing.T) {
	cfg := testConfig(schema.TextOut, "")
	assert.Equal(t, "Critical", severityLabel(25, cfg))
	assert.Equal(t, units.KPH, speedUnit(&contract.Config{}))
	assert.Equal(t, units.MPH, speedUnit(&contract.Config{SpeedUnit: units.MPH}))
}
